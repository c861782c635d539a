package service

import "github.com/basel-ax/ailogo/internal/domain"

// StatusView is what the status chip shows for a given status.
type StatusView struct {
	State      domain.Status
	Title      string
	Subtitle   string
	Actionable bool // tapping does something (open the design, or retry)
}

// Visible reports whether anything should be rendered.
func (v StatusView) Visible() bool {
	return v.State != domain.StatusIdle
}

// ViewForStatus maps a status to its chip. Idle renders nothing.
func ViewForStatus(s domain.Status) StatusView {
	switch s {
	case domain.StatusPending:
		return StatusView{State: s, Title: "Creating Your Design...", Subtitle: "Ready in 2 minutes"}
	case domain.StatusSuccess:
		return StatusView{State: s, Title: "Your Design is Ready!", Subtitle: "Tap to see it.", Actionable: true}
	case domain.StatusError:
		return StatusView{State: s, Title: "Oops, something went wrong!", Subtitle: "Click to try again.", Actionable: true}
	default:
		return StatusView{State: domain.StatusIdle}
	}
}

// DesignView is the result screen: the image and the prompt that produced it.
type DesignView struct {
	ImageURL   string
	Prompt     string
	StyleLabel string
}

func designViewFor(r Result) DesignView {
	label := ""
	if style, ok := domain.LookupStyle(r.Request.StyleTag); ok {
		label = style.Label
	}
	return DesignView{
		ImageURL:   r.Image.URL,
		Prompt:     r.Request.Prompt,
		StyleLabel: label,
	}
}
