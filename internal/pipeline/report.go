package pipeline

import (
	"strings"
	"time"

	"github.com/jonathan/sales-assistant/internal/document"
	"github.com/jonathan/sales-assistant/internal/prompt"
)

const reportWidth = 80

// outputSubdir maps a mode to its artifact directory under the output root.
func outputSubdir(mode prompt.Mode) string {
	switch mode {
	case prompt.ModeAnalysis:
		return "analysis_reports"
	case prompt.ModeScript:
		return "sales_scripts"
	case prompt.ModePresentation:
		return "presentations"
	case prompt.ModeRecommendation:
		return "recommendations"
	case prompt.ModeEmail:
		return "emails"
	}
	return "misc"
}

// artifactBase builds the file-name prefix: mode kind plus the
// discriminator where the mode has one.
func artifactBase(mode prompt.Mode, opts prompt.Options) string {
	var kind string
	switch mode {
	case prompt.ModeAnalysis:
		kind = "product_analysis"
	case prompt.ModeScript:
		kind = "sales_script"
	case prompt.ModePresentation:
		kind = "presentation"
	case prompt.ModeRecommendation:
		kind = "recommendation"
	case prompt.ModeEmail:
		kind = "email"
	}
	if disc := mode.Discriminator(opts); disc != "" {
		return kind + "_" + disc
	}
	return kind
}

func reportTitle(mode prompt.Mode, opts prompt.Options) string {
	switch mode {
	case prompt.ModeAnalysis:
		return "产品分析报告"
	case prompt.ModeScript:
		return "销售话术脚本 - " + strings.ToUpper(mode.Discriminator(opts)) + "风格"
	case prompt.ModePresentation:
		return "客户演示大纲 - " + strings.ToUpper(mode.Discriminator(opts))
	case prompt.ModeRecommendation:
		return "客户需求分析与产品推荐"
	case prompt.ModeEmail:
		return "销售邮件 - " + strings.ToUpper(mode.Discriminator(opts))
	}
	return string(mode)
}

type reportSection struct {
	title string
	body  string
}

// reportSections lists the input sections included in the artifact body,
// then the generated result. Sections for dropped optional inputs are
// omitted entirely.
func reportSections(mode prompt.Mode, docs map[prompt.Role]*document.ExtractedDocument, response string) []reportSection {
	section := func(title string, role prompt.Role) (reportSection, bool) {
		doc := docs[role]
		if doc == nil {
			return reportSection{}, false
		}
		return reportSection{title: title, body: doc.RenderText()}, true
	}

	var sections []reportSection
	add := func(title string, role prompt.Role) {
		if s, ok := section(title, role); ok {
			sections = append(sections, s)
		}
	}

	switch mode {
	case prompt.ModeAnalysis:
		add("产品文档内容", prompt.RoleProduct)
		add("竞品文档内容", prompt.RoleCompetitor)
		sections = append(sections, reportSection{title: "AI分析结果", body: response})
	case prompt.ModeScript:
		add("产品信息", prompt.RoleProduct)
		add("客户画像", prompt.RoleCustomer)
		sections = append(sections, reportSection{title: "销售话术", body: response})
	case prompt.ModePresentation:
		add("产品信息", prompt.RoleProduct)
		add("客户信息", prompt.RoleCustomer)
		sections = append(sections, reportSection{title: "演示大纲", body: response})
	case prompt.ModeRecommendation:
		add("客户信息", prompt.RoleCustomer)
		add("产品目录", prompt.RoleCatalog)
		sections = append(sections, reportSection{title: "推荐方案", body: response})
	case prompt.ModeEmail:
		add("产品信息", prompt.RoleProduct)
		add("收件人信息", prompt.RoleRecipient)
		sections = append(sections, reportSection{title: "邮件内容", body: response})
	}
	return sections
}

// buildReport renders the persisted artifact text. The "generated at"
// marker lives here, in metadata, never inside the model-facing prompt.
func buildReport(mode prompt.Mode, opts prompt.Options, docs map[prompt.Role]*document.ExtractedDocument, response string, generatedAt time.Time) string {
	line := strings.Repeat("=", reportWidth)
	divider := strings.Repeat("-", reportWidth)

	var sb strings.Builder
	sb.WriteString(line + "\n")
	sb.WriteString("  " + reportTitle(mode, opts) + "\n")
	sb.WriteString(line + "\n\n")
	sb.WriteString("生成时间: " + generatedAt.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString("生成工具: sales-assistant\n\n")
	sb.WriteString(line + "\n")

	for _, section := range reportSections(mode, docs, response) {
		sb.WriteString("\n### " + section.title + "\n")
		sb.WriteString(divider + "\n")
		sb.WriteString(section.body + "\n")
		sb.WriteString(divider + "\n")
	}

	sb.WriteString("\n" + line + "\n报告结束\n" + line + "\n")
	return sb.String()
}
