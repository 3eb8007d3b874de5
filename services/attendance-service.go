package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/scope"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type AttendanceService struct {
	AttendanceCollection *mongo.Collection
}

func NewAttendanceService(attendanceCollection *mongo.Collection) *AttendanceService {
	return &AttendanceService{AttendanceCollection: attendanceCollection}
}

// NormalizeDate strips the time-of-day so the ledger key is the calendar
// day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseCheckTime accepts either a full RFC3339 timestamp or a day-relative
// "HH:MM" clock string combined with the attendance date.
func ParseCheckTime(value string, day time.Time) (time.Time, error) {
	if strings.Contains(value, "T") {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, utils.NewValidationError("Invalid timestamp: " + value)
		}
		return t.UTC(), nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 1 || len(parts) > 3 {
		return time.Time{}, utils.NewValidationError("Invalid time of day: " + value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, utils.NewValidationError("Invalid time of day: " + value)
	}
	minute := 0
	if len(parts) > 1 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return time.Time{}, utils.NewValidationError("Invalid time of day: " + value)
		}
	}

	day = NormalizeDate(day)
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

// ComputeHoursWorked renders the worked duration as "8h 30m". Missing
// timestamps come back as "N/A" and a check-out before the check-in is
// reported as invalid rather than failing the read.
func ComputeHoursWorked(checkIn, checkOut *time.Time) string {
	if checkIn == nil || checkOut == nil || checkIn.IsZero() || checkOut.IsZero() {
		return "N/A"
	}
	diff := checkOut.Sub(*checkIn)
	if diff < 0 {
		return "invalid"
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func decorate(a *models.Attendance) {
	a.HoursWorked = ComputeHoursWorked(a.CheckIn, a.CheckOut)
}

// MarkAttendanceInput is one ledger row as submitted by an admin. CheckIn
// and CheckOut are raw strings because the wire format allows both full
// timestamps and clock times.
type MarkAttendanceInput struct {
	UserID   string                  `json:"userId"`
	Date     string                  `json:"date"`
	Status   models.AttendanceStatus `json:"status"`
	CheckIn  string                  `json:"checkIn"`
	CheckOut string                  `json:"checkOut"`
	Notes    string                  `json:"notes"`
}

// MarkAttendance appends one row to the ledger. The (user, day) uniqueness
// is enforced by the collection's unique index, so a concurrent duplicate
// fails at the write instead of racing a read-then-insert check.
func (s *AttendanceService) MarkAttendance(ctx context.Context, principal models.Principal, input MarkAttendanceInput) (models.Attendance, error) {
	if input.UserID == "" {
		return models.Attendance{}, utils.NewValidationError("User ID is required")
	}
	if input.Date == "" {
		return models.Attendance{}, utils.NewValidationError("Date is required")
	}
	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return models.Attendance{}, utils.NewValidationError("Invalid user ID format")
	}
	if !input.Status.Valid() {
		return models.Attendance{}, utils.NewValidationError("Invalid attendance status")
	}

	parsedDate, err := parseDateOnly(input.Date)
	if err != nil {
		return models.Attendance{}, err
	}
	day := NormalizeDate(parsedDate)

	// Absent and leave rows never carry check times, even when supplied.
	var checkIn, checkOut *time.Time
	if input.Status.HasWorkHours() {
		if input.CheckIn != "" {
			t, err := ParseCheckTime(input.CheckIn, day)
			if err != nil {
				return models.Attendance{}, err
			}
			checkIn = &t
		}
		if input.CheckOut != "" {
			t, err := ParseCheckTime(input.CheckOut, day)
			if err != nil {
				return models.Attendance{}, err
			}
			checkOut = &t
		}
	}

	attendance := models.Attendance{
		ID:         primitive.NewObjectID(),
		User:       userID,
		Date:       day,
		Status:     input.Status,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Notes:      input.Notes,
		RecordedBy: principal.ID,
		CreatedAt:  nowUTC(),
	}

	if _, err := s.AttendanceCollection.InsertOne(ctx, attendance); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Attendance{}, utils.NewConflictError("Attendance already recorded for this user on the selected date")
		}
		return models.Attendance{}, err
	}

	decorate(&attendance)
	return attendance, nil
}

func parseDateOnly(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, utils.NewValidationError("Invalid date: " + value)
}

// BatchFailure pairs a rejected record with the reason it was rejected.
type BatchFailure struct {
	Record MarkAttendanceInput `json:"record"`
	Error  string              `json:"error"`
}

// BatchResult reports a batch write: already-committed successes are never
// rolled back when later records fail.
type BatchResult struct {
	Successful []models.Attendance `json:"successful"`
	Failed     []BatchFailure      `json:"failed"`
}

// MarkAttendanceBatch applies MarkAttendance per record, best effort.
func (s *AttendanceService) MarkAttendanceBatch(ctx context.Context, principal models.Principal, records []MarkAttendanceInput) (BatchResult, error) {
	if len(records) == 0 {
		return BatchResult{}, utils.NewValidationError("Attendance records array is required")
	}

	result := BatchResult{
		Successful: []models.Attendance{},
		Failed:     []BatchFailure{},
	}
	for _, record := range records {
		attendance, err := s.MarkAttendance(ctx, principal, record)
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{Record: record, Error: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, attendance)
	}
	return result, nil
}

func (s *AttendanceService) GetAllAttendance(ctx context.Context, limit int64) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.AttendanceCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Attendance{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for i := range records {
		decorate(&records[i])
	}
	return records, nil
}

// MonthInterval is the closed [first, last] day range of a month.
func MonthInterval(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

// QueryAttendance lists ledger rows. A zero userID means the caller's own
// ledger and pins the filter to the principal for every role; a non-zero
// userID goes through the principal's scope, so only admins reach another
// user's rows.
func (s *AttendanceService) QueryAttendance(ctx context.Context, principal models.Principal, userID primitive.ObjectID, year, month int) ([]models.Attendance, error) {
	filter := scope.OwnAttendance(principal)
	if !userID.IsZero() {
		filter = scope.Merge(scope.Attendance(principal), bson.M{"user": userID})
	}
	if year != 0 || month != 0 {
		if month < 1 || month > 12 || year < 1 {
			return nil, utils.NewValidationError("Invalid year or month parameters")
		}
		first, last := MonthInterval(year, month)
		filter["date"] = bson.M{"$gte": first, "$lte": last}
	}

	cursor, err := s.AttendanceCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Attendance{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for i := range records {
		decorate(&records[i])
	}
	return records, nil
}

func (s *AttendanceService) GetAttendanceRecord(ctx context.Context, id primitive.ObjectID) (models.Attendance, error) {
	var attendance models.Attendance
	if err := s.AttendanceCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&attendance); err != nil {
		return models.Attendance{}, utils.NewNotFoundError("No attendance record found with that ID")
	}
	decorate(&attendance)
	return attendance, nil
}

// UpdateAttendanceInput is the admin correction path.
type UpdateAttendanceInput struct {
	Status   *models.AttendanceStatus `json:"status"`
	CheckIn  *string                  `json:"checkIn"`
	CheckOut *string                  `json:"checkOut"`
	Notes    *string                  `json:"notes"`
}

func (s *AttendanceService) UpdateAttendance(ctx context.Context, id primitive.ObjectID, input UpdateAttendanceInput) (models.Attendance, error) {
	current, err := s.GetAttendanceRecord(ctx, id)
	if err != nil {
		return models.Attendance{}, err
	}

	set := bson.M{}
	unset := bson.M{}
	status := current.Status
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.Attendance{}, utils.NewValidationError("Invalid attendance status")
		}
		status = *input.Status
		set["status"] = status
	}
	if !status.HasWorkHours() {
		unset["checkIn"] = ""
		unset["checkOut"] = ""
	} else {
		if input.CheckIn != nil {
			t, err := ParseCheckTime(*input.CheckIn, current.Date)
			if err != nil {
				return models.Attendance{}, err
			}
			set["checkIn"] = t
		}
		if input.CheckOut != nil {
			t, err := ParseCheckTime(*input.CheckOut, current.Date)
			if err != nil {
				return models.Attendance{}, err
			}
			set["checkOut"] = t
		}
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}
	if len(set) == 0 && len(unset) == 0 {
		return models.Attendance{}, utils.NewValidationError("No fields to update")
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var attendance models.Attendance
	err = s.AttendanceCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&attendance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Attendance{}, utils.NewNotFoundError("No attendance record found with that ID")
		}
		return models.Attendance{}, err
	}
	decorate(&attendance)
	return attendance, nil
}

func (s *AttendanceService) DeleteAttendance(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.AttendanceCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("No attendance record found with that ID")
	}
	return nil
}
