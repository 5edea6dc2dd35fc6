package prompt

import (
	"strings"

	"github.com/xxxsen/moneya/internal/model"
)

const (
	AssistantName   = "머니야"
	DefaultUserName = "고객"
)

// Input carries everything a prompt is rendered from. Every pointer may be nil.
type Input struct {
	UserName  string
	Financial *model.FinancialContext
	Budget    *model.BudgetInfo
	Design    *model.DesignData
	Analysis  *model.AnalysisContext
	Retrieved string
}

// DisplayName resolves the name the assistant addresses the user by.
func (in *Input) DisplayName() string {
	if in.Financial != nil {
		if n := strings.TrimSpace(in.Financial.Name); n != "" {
			return n
		}
	}
	if n := strings.TrimSpace(in.UserName); n != "" {
		return n
	}
	return DefaultUserName
}

type section struct {
	name    string
	present func(in *Input) bool
	render  func(sb *strings.Builder, in *Input)
}

func always(*Input) bool { return true }

var sections = buildSections()

func buildSections() []section {
	out := []section{
		{name: "identity", present: always, render: renderIdentity},
		{name: "conversation", present: always, render: renderConversationRules},
		{name: "numbers", present: always, render: renderNumberPolicy},
		{name: "profile", present: always, render: renderProfile},
		{name: "house", present: hasJob, render: renderHouse},
	}
	for _, spec := range planSpecs {
		spec := spec
		out = append(out, section{
			name: "design." + spec.key,
			present: func(in *Input) bool {
				return in.Design != nil && spec.get(in.Design) != nil
			},
			render: func(sb *strings.Builder, in *Input) {
				renderPlan(sb, spec, spec.get(in.Design))
			},
		})
	}
	out = append(out,
		section{name: "principles", present: always, render: renderPrinciples},
		section{name: "prohibitions", present: always, render: renderProhibitions},
		section{name: "retrieved", present: hasRetrieved, render: renderRetrieved},
		section{name: "analysis", present: hasAnalysis, render: renderAnalysis},
	)
	return out
}

// Build renders the instruction prompt. Sections are emitted in a fixed
// order and optional sections leave no trace when absent.
func Build(in Input) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if !s.present(&in) {
			continue
		}
		var sb strings.Builder
		s.render(&sb, &in)
		parts = append(parts, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// SectionNames reports which sections Build would render for in.
func SectionNames(in Input) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.present(&in) {
			out = append(out, s.name)
		}
	}
	return out
}

func hasJob(in *Input) bool {
	return in.Design != nil && strings.TrimSpace(in.Design.Job) != ""
}

func hasRetrieved(in *Input) bool {
	return strings.TrimSpace(in.Retrieved) != ""
}

func hasAnalysis(in *Input) bool {
	return in.Analysis.Present()
}
