package services

import (
	"context"
	"math"
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

type LeaveService struct {
	LeavesCollection *mongo.Collection
	UsersCollection  *mongo.Collection
}

func NewLeaveService(leavesCollection, usersCollection *mongo.Collection) *LeaveService {
	return &LeaveService{
		LeavesCollection: leavesCollection,
		UsersCollection:  usersCollection,
	}
}

// LeaveDays is the inclusive day count of a leave span: both endpoints
// count, partial days round up.
func LeaveDays(startDate, endDate time.Time) int {
	diff := endDate.Sub(startDate)
	return int(math.Ceil(diff.Hours()/24)) + 1
}

func (s *LeaveService) ApplyForLeave(ctx context.Context, principal models.Principal, leaveType models.LeaveType, startDate, endDate time.Time, reason string) (models.Leave, error) {
	if !leaveType.Valid() {
		return models.Leave{}, utils.NewValidationError("Invalid leave type")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return models.Leave{}, utils.NewValidationError("Start and end dates are required")
	}
	if endDate.Before(startDate) {
		return models.Leave{}, utils.NewValidationError("End date must be on or after start date")
	}

	leave := models.Leave{
		ID:        primitive.NewObjectID(),
		Employee:  principal.ID,
		Type:      leaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Days:      LeaveDays(startDate, endDate),
		Reason:    reason,
		Status:    models.LeavePending,
		CreatedAt: nowUTC(),
	}

	if _, err := s.LeavesCollection.InsertOne(ctx, leave); err != nil {
		return models.Leave{}, err
	}
	return leave, nil
}

func (s *LeaveService) GetMyLeaves(ctx context.Context, principal models.Principal) ([]models.Leave, error) {
	cursor, err := s.LeavesCollection.Find(ctx, scope.OwnLeaves(principal),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leaves := []models.Leave{}
	if err := cursor.All(ctx, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

// CancelLeave removes the caller's own pending request. The filter always
// pins the employee to the caller, admins included. Absent, foreign and
// already-decided records all answer not-found so existence never leaks.
func (s *LeaveService) CancelLeave(ctx context.Context, principal models.Principal, id primitive.ObjectID) error {
	filter := scope.Merge(scope.OwnLeaves(principal), bson.M{
		"_id":    id,
		"status": models.LeavePending,
	})

	res, err := s.LeavesCollection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("No pending leave found with that ID or you cannot cancel this leave")
	}
	return nil
}

// DecideLeave approves or rejects a pending request in one conditional
// write. Re-deciding an already-decided leave misses the filter and is
// reported as a state error, which also closes the race between two admins
// deciding simultaneously.
func (s *LeaveService) DecideLeave(ctx context.Context, principal models.Principal, id primitive.ObjectID, status models.LeaveStatus, rejectionReason string) (models.Leave, error) {
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return models.Leave{}, utils.NewValidationError(`Status must be either "approved" or "rejected"`)
	}
	if status == models.LeaveRejected && rejectionReason == "" {
		return models.Leave{}, utils.NewValidationError("Rejection reason is required when rejecting leave")
	}

	set := bson.M{
		"status":     status,
		"approvedBy": principal.ID,
		"approvedAt": nowUTC(),
	}
	if status == models.LeaveRejected {
		set["rejectionReason"] = rejectionReason
	}

	var leave models.Leave
	err := s.LeavesCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.LeavePending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&leave)
	if err == nil {
		return leave, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Leave{}, err
	}

	var current models.Leave
	if lookupErr := s.LeavesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&current); lookupErr != nil {
		return models.Leave{}, utils.NewNotFoundError("No leave found with that ID")
	}
	return models.Leave{}, utils.NewStateError("Leave has already been " + string(current.Status))
}

func (s *LeaveService) GetLeave(ctx context.Context, id primitive.ObjectID) (models.LeaveDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, lookupStages()...)

	cursor, err := s.LeavesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.LeaveDetail{}, err
	}
	defer cursor.Close(ctx)

	var details []models.LeaveDetail
	if err := cursor.All(ctx, &details); err != nil {
		return models.LeaveDetail{}, err
	}
	if len(details) == 0 {
		return models.LeaveDetail{}, utils.NewNotFoundError("No leave found with that ID")
	}
	return details[0], nil
}

// ListLeavesOptions are the admin listing controls.
type ListLeavesOptions struct {
	Status     models.LeaveStatus
	Type       models.LeaveType
	Department string
	StartDate  *time.Time
	EndDate    *time.Time
	Sort       string
	Page       int64
	Limit      int64
}

// buildLeaveMatch turns listing options into the aggregation match filter.
// The department filter needs the ids of that department's users, which the
// caller resolves first.
func buildLeaveMatch(opts ListLeavesOptions, departmentIDs []primitive.ObjectID) bson.M {
	match := bson.M{}
	if opts.Status != "" {
		match["status"] = opts.Status
	}
	if opts.Type != "" {
		match["type"] = opts.Type
	}
	if opts.StartDate != nil || opts.EndDate != nil {
		dateRange := bson.M{}
		if opts.StartDate != nil {
			dateRange["$gte"] = *opts.StartDate
		}
		if opts.EndDate != nil {
			dateRange["$lte"] = *opts.EndDate
		}
		match["startDate"] = dateRange
	}
	if departmentIDs != nil {
		match["employee"] = bson.M{"$in": departmentIDs}
	}
	return match
}

func parseSort(sort string) bson.D {
	if sort == "" {
		sort = "-createdAt"
	}
	order := 1
	field := sort
	if strings.HasPrefix(sort, "-") {
		order = -1
		field = strings.TrimPrefix(sort, "-")
	}
	return bson.D{{Key: field, Value: order}}
}

func lookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "employee",
			"foreignField": "_id",
			"as":           "employeeDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$employeeDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "approvedBy",
			"foreignField": "_id",
			"as":           "approverDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$approverDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"employeeDoc.password": 0,
			"approverDoc.password": 0,
		}}},
	}
}

func (s *LeaveService) ListLeaves(ctx context.Context, opts ListLeavesOptions) ([]models.LeaveDetail, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	var departmentIDs []primitive.ObjectID
	if opts.Department != "" {
		cursor, err := s.UsersCollection.Find(ctx, bson.M{"department": opts.Department})
		if err != nil {
			return nil, 0, err
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, 0, err
		}
		departmentIDs = make([]primitive.ObjectID, 0, len(users))
		for _, u := range users {
			departmentIDs = append(departmentIDs, u.ID)
		}
	}

	match := buildLeaveMatch(opts, departmentIDs)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: parseSort(opts.Sort)}},
		{{Key: "$skip", Value: (opts.Page - 1) * opts.Limit}},
		{{Key: "$limit", Value: opts.Limit}},
	}
	pipeline = append(pipeline, lookupStages()...)

	cursor, err := s.LeavesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	details := []models.LeaveDetail{}
	if err := cursor.All(ctx, &details); err != nil {
		return nil, 0, err
	}

	total, err := s.LeavesCollection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// LeaveStats groups leaves by status, zero-filling statuses with no rows.
func (s *LeaveService) LeaveStats(ctx context.Context, department string, startDate, endDate *time.Time) (models.LeaveStats, error) {
	var departmentIDs []primitive.ObjectID
	if department != "" {
		cursor, err := s.UsersCollection.Find(ctx, bson.M{"department": department})
		if err != nil {
			return models.LeaveStats{}, err
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return models.LeaveStats{}, err
		}
		departmentIDs = make([]primitive.ObjectID, 0, len(users))
		for _, u := range users {
			departmentIDs = append(departmentIDs, u.ID)
		}
	}

	match := buildLeaveMatch(ListLeavesOptions{StartDate: startDate, EndDate: endDate}, departmentIDs)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.LeavesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.LeaveStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.LeaveStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.LeaveStats{}, err
	}

	stats := models.LeaveStats{}
	for _, row := range rows {
		switch row.Status {
		case models.LeavePending:
			stats.Pending = row.Count
		case models.LeaveApproved:
			stats.Approved = row.Count
		case models.LeaveRejected:
			stats.Rejected = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}
