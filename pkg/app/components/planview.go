package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/comicenc/pkg/app/styles"
	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// PlanView renders the volumes a plan would produce, one card per volume.
type PlanView struct {
	Plan      *data.Plan
	Ext       string // container extension, with its dot
	FullNames bool
	Width     int
}

func NewPlanView(plan *data.Plan, ext string) *PlanView {
	return &PlanView{
		Plan:  plan,
		Ext:   ext,
		Width: 80,
	}
}

func (v *PlanView) View() string {
	p := v.Plan
	if p == nil || len(p.Volumes) == 0 {
		return styles.MutedStyle.Render("No chapter found. Nothing to do.") + "\n"
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("%d volume(s) from chapters %d to %d", len(p.Volumes), p.FirstChapter, p.LastChapter())))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d out of %d chapters selected, %d ignored", p.SelectedChapters, p.TotalChapters, p.Ignored())))
	b.WriteString("\n\n")

	for _, batch := range p.Volumes {
		b.WriteString(v.card(batch))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *PlanView) card(batch data.VolumeBatch) string {
	p := v.Plan

	var title string
	if name, err := data.VolumeFileName(p.Method, p, batch, v.Ext); err != nil {
		title = styles.StatusError.Render(err.Error())
	} else {
		title = styles.TitleStyle.Render(utils.TruncateForDisplay(name.File(-1), v.FullNames))
	}

	lines := []string{
		title,
		styles.MutedStyle.Render(fmt.Sprintf("Chapters %s to %s",
			utils.Pad(batch.StartingChapter, p.ChapterNumberWidth),
			utils.Pad(batch.EndingChapter(), p.ChapterNumberWidth))),
		"",
	}
	for _, c := range batch.Chapters {
		lines = append(lines, styles.TextStyle.Render(fmt.Sprintf("%s  %s",
			utils.Pad(c.Ordinal, p.ChapterNumberWidth),
			utils.TruncateForDisplay(c.DisplayName, v.FullNames))))
	}

	return styles.CardStyle.Width(v.Width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
