package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
)

func validTestProject() models.Project {
	return models.Project{
		Name:        "Payroll revamp",
		Description: "Replace the legacy payroll pipeline",
		Client:      "Acme d.o.o.",
		Manager:     primitive.NewObjectID(),
		StartDate:   day(2024, 4, 1),
		EndDate:     day(2024, 9, 30),
		Status:      models.ProjectPlanning,
		Priority:    models.PriorityMedium,
	}
}

func TestValidateProject(t *testing.T) {
	negativeBudget := -100.0
	earlier := day(2024, 3, 1)

	tests := []struct {
		name    string
		mutate  func(*models.Project)
		wantErr bool
	}{
		{"valid", func(p *models.Project) {}, false},
		{"missing name", func(p *models.Project) { p.Name = "" }, true},
		{"missing client", func(p *models.Project) { p.Client = "" }, true},
		{"missing manager", func(p *models.Project) { p.Manager = primitive.NilObjectID }, true},
		{"missing dates", func(p *models.Project) { p.StartDate = time.Time{} }, true},
		{"end before start", func(p *models.Project) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }, true},
		{"last date before start", func(p *models.Project) { p.LastDate = &earlier }, true},
		{"bad status", func(p *models.Project) { p.Status = "paused" }, true},
		{"bad priority", func(p *models.Project) { p.Priority = "urgent" }, true},
		{"negative budget", func(p *models.Project) { p.Budget = &negativeBudget }, true},
		{"single day project", func(p *models.Project) { p.EndDate = p.StartDate }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validTestProject()
			tc.mutate(&p)

			err := validateProject(p)
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
