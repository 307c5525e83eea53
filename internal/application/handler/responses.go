package handler

import (
	"github.com/google/uuid"

	"investogun/internal/application/form"
	"investogun/internal/application/models"
)

// ApplicationResponse is the draft as seen by API clients. Application is
// the exact payload that a submission would post.
type ApplicationResponse struct {
	DraftID     uuid.UUID               `json:"draft_id"`
	Status      models.SubmissionStatus `json:"status"`
	Application models.Application      `json:"application"`
	Visible     Visibility              `json:"visible"`
	Removable   map[form.List]bool      `json:"removable"`
}

// Visibility reports which gated fields the form currently shows. Hidden
// fields keep their values.
type Visibility struct {
	RCNumber            bool `json:"rc_number"`
	HowHeardOtherDetail bool `json:"how_heard_other_detail"`
}

type SubmitResponse struct {
	Status models.SubmissionStatus `json:"status"`
}

func toApplicationResponse(d *models.Draft) ApplicationResponse {
	removable := make(map[form.List]bool, len(form.Lists))
	for _, l := range form.Lists {
		removable[l] = form.CanRemove(d.Application, l)
	}
	return ApplicationResponse{
		DraftID:     d.ID,
		Status:      d.Status,
		Application: d.Application,
		Visible: Visibility{
			RCNumber:            d.Application.RCNumberVisible(),
			HowHeardOtherDetail: d.Application.HowHeardOtherVisible(),
		},
		Removable: removable,
	}
}
