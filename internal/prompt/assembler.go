package prompt

import (
	"strings"

	"github.com/jonathan/sales-assistant/internal/document"
	"github.com/jonathan/sales-assistant/internal/prompts"
)

// Spec is the assembled instruction pair sent to the completion service.
type Spec struct {
	SystemInstructions string
	UserContent        string
}

// Build assembles the prompt for a mode from extracted documents and
// options. Identical inputs produce byte-identical output: nothing here
// reads the clock or any other ambient state. Sections for absent optional
// roles are omitted entirely, never left as empty placeholders.
func Build(mode Mode, docs map[Role]*document.ExtractedDocument, opts Options) (*Spec, error) {
	if !mode.Valid() {
		return nil, &AssemblyError{Message: "unknown mode " + string(mode)}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	for _, role := range mode.RequiredRoles() {
		if docs[role] == nil {
			return nil, &MissingInputError{Mode: mode, Role: role}
		}
	}

	file := string(mode) + ".json"
	system, err := prompts.Get(file, "system")
	if err != nil {
		return nil, &AssemblyError{Message: "loading system instructions", Cause: err}
	}

	var sb strings.Builder
	switch mode {
	case ModeAnalysis:
		err = buildAnalysis(&sb, docs)
	case ModeScript:
		err = buildScript(&sb, docs, opts)
	case ModePresentation:
		err = buildPresentation(&sb, docs, opts)
	case ModeRecommendation:
		err = buildRecommendation(&sb, docs)
	case ModeEmail:
		err = buildEmail(&sb, docs, opts)
	}
	if err != nil {
		return nil, err
	}

	return &Spec{SystemInstructions: system, UserContent: sb.String()}, nil
}

func fragment(file, key string, data map[string]string) (string, error) {
	tpl, err := prompts.Get(file, key)
	if err != nil {
		return "", &AssemblyError{Message: "loading fragment " + key, Cause: err}
	}
	return prompts.Format(tpl, data), nil
}

func appendFragment(sb *strings.Builder, file, key string, data map[string]string) error {
	text, err := fragment(file, key, data)
	if err != nil {
		return err
	}
	sb.WriteString(text)
	return nil
}

func buildAnalysis(sb *strings.Builder, docs map[Role]*document.ExtractedDocument) error {
	const file = "analysis.json"
	if err := appendFragment(sb, file, "intro", map[string]string{
		"Product": docs[RoleProduct].RenderText(),
	}); err != nil {
		return err
	}
	if competitor := docs[RoleCompetitor]; competitor != nil {
		return appendFragment(sb, file, "with_competitor", map[string]string{
			"Competitor": competitor.RenderText(),
		})
	}
	return appendFragment(sb, file, "without_competitor", nil)
}

func buildScript(sb *strings.Builder, docs map[Role]*document.ExtractedDocument, opts Options) error {
	const file = "script.json"
	if err := appendFragment(sb, file, "intro", map[string]string{
		"Product": docs[RoleProduct].RenderText(),
	}); err != nil {
		return err
	}
	if customer := docs[RoleCustomer]; customer != nil {
		if err := appendFragment(sb, file, "with_customer", map[string]string{
			"Customer": customer.RenderText(),
		}); err != nil {
			return err
		}
	}
	tone, err := fragment(file, "tone_"+opts.Tone, nil)
	if err != nil {
		return err
	}
	return appendFragment(sb, file, "requirements", map[string]string{"Tone": tone})
}

func buildPresentation(sb *strings.Builder, docs map[Role]*document.ExtractedDocument, opts Options) error {
	const file = "presentation.json"
	kind, err := fragment(file, "type_"+opts.PresentationType, nil)
	if err != nil {
		return err
	}
	return appendFragment(sb, file, "body", map[string]string{
		"Product":  docs[RoleProduct].RenderText(),
		"Customer": docs[RoleCustomer].RenderText(),
		"Type":     kind,
	})
}

func buildRecommendation(sb *strings.Builder, docs map[Role]*document.ExtractedDocument) error {
	return appendFragment(sb, "recommendation.json", "body", map[string]string{
		"Customer": docs[RoleCustomer].RenderText(),
		"Catalog":  docs[RoleCatalog].RenderText(),
	})
}

func buildEmail(sb *strings.Builder, docs map[Role]*document.ExtractedDocument, opts Options) error {
	const file = "email.json"
	purpose, err := fragment(file, "purpose_"+opts.EmailPurpose, nil)
	if err != nil {
		return err
	}
	if err := appendFragment(sb, file, "intro", map[string]string{
		"Purpose": purpose,
		"Product": docs[RoleProduct].RenderText(),
	}); err != nil {
		return err
	}
	if recipient := docs[RoleRecipient]; recipient != nil {
		if err := appendFragment(sb, file, "with_recipient", map[string]string{
			"Recipient": recipient.RenderText(),
		}); err != nil {
			return err
		}
	}
	return appendFragment(sb, file, "requirements", nil)
}
