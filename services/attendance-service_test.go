package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2024, 5, 10, 18, 42, 7, 123, time.UTC)
	got := NormalizeDate(in)
	want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseCheckTime(t *testing.T) {
	dayOf := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"clock time", "09:00", dayOf.Add(9 * time.Hour), false},
		{"clock time afternoon", "17:30", dayOf.Add(17*time.Hour + 30*time.Minute), false},
		{"hour only", "9", dayOf.Add(9 * time.Hour), false},
		{"rfc3339", "2024-05-10T09:00:00Z", dayOf.Add(9 * time.Hour), false},
		{"bad hour", "25:00", time.Time{}, true},
		{"bad minute", "09:77", time.Time{}, true},
		{"garbage", "morning", time.Time{}, true},
		{"bad timestamp", "2024-05-10Tnoon", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCheckTime(tc.in, dayOf)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCheckTime(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeHoursWorked(t *testing.T) {
	at := func(h, m int) *time.Time {
		t := time.Date(2024, 5, 10, h, m, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		name     string
		checkIn  *time.Time
		checkOut *time.Time
		want     string
	}{
		{"full day", at(9, 0), at(17, 30), "8h 30m"},
		{"exact hours", at(9, 0), at(17, 0), "8h 0m"},
		{"short shift", at(10, 15), at(10, 45), "0h 30m"},
		{"missing check in", nil, at(17, 0), "N/A"},
		{"missing check out", at(9, 0), nil, "N/A"},
		{"both missing", nil, nil, "N/A"},
		{"check out before check in", at(17, 0), at(9, 0), "invalid"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeHoursWorked(tc.checkIn, tc.checkOut); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMonthInterval(t *testing.T) {
	first, last := MonthInterval(2024, 2)

	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !first.Equal(want) {
		t.Errorf("first = %v, want %v", first, want)
	}
	if last.Month() != time.February || last.Day() != 29 {
		t.Errorf("leap February should end on the 29th, got %v", last)
	}
	if !last.Before(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last %v spills into March", last)
	}
}

func TestMarkAttendanceValidation(t *testing.T) {
	s := &AttendanceService{}
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	userID := primitive.NewObjectID().Hex()

	tests := []struct {
		name  string
		input MarkAttendanceInput
	}{
		{"missing user", MarkAttendanceInput{Date: "2024-04-01", Status: models.AttendancePresent}},
		{"missing date", MarkAttendanceInput{UserID: userID, Status: models.AttendancePresent}},
		{"bad user id", MarkAttendanceInput{UserID: "nope", Date: "2024-04-01", Status: models.AttendancePresent}},
		{"bad status", MarkAttendanceInput{UserID: userID, Date: "2024-04-01", Status: "remote"}},
		{"bad date", MarkAttendanceInput{UserID: userID, Date: "01-04-2024", Status: models.AttendancePresent}},
		{"bad check in", MarkAttendanceInput{UserID: userID, Date: "2024-04-01", Status: models.AttendancePresent, CheckIn: "25:99"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.MarkAttendance(context.Background(), admin, tc.input)
			if utils.StatusOf(err) != http.StatusBadRequest {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMarkAttendanceBatchRequiresRecords(t *testing.T) {
	s := &AttendanceService{}
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	if _, err := s.MarkAttendanceBatch(context.Background(), admin, nil); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("expected validation error for empty batch, got %v", err)
	}
}

func TestParseDateOnly(t *testing.T) {
	if _, err := parseDateOnly("2024-05-10"); err != nil {
		t.Errorf("date-only form rejected: %v", err)
	}
	if _, err := parseDateOnly("2024-05-10T00:00:00Z"); err != nil {
		t.Errorf("RFC3339 form rejected: %v", err)
	}
	if _, err := parseDateOnly("10/05/2024"); err == nil {
		t.Error("expected error for unsupported layout, got nil")
	}
}

func TestMarkAttendanceDuplicateDay(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second row for the same user and day conflicts", func(mt *mtest.T) {
		svc := &AttendanceService{AttendanceCollection: mt.Coll}
		admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := svc.MarkAttendance(context.Background(), admin, MarkAttendanceInput{
			UserID:   primitive.NewObjectID().Hex(),
			Date:     "2024-05-10",
			Status:   models.AttendancePresent,
			CheckIn:  "09:00",
			CheckOut: "17:30",
		})
		appErr, ok := utils.AsAppError(err)
		if !ok || appErr.Code != http.StatusConflict {
			mt.Fatalf("MarkAttendance error = %v, want a conflict", err)
		}
		if appErr.Message != "Attendance already recorded for this user on the selected date" {
			mt.Errorf("message = %q", appErr.Message)
		}
	})
}
