package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/scope"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type TaskService struct {
	TasksCollection *mongo.Collection
	UsersCollection *mongo.Collection
}

func NewTaskService(tasksCollection, usersCollection *mongo.Collection) *TaskService {
	return &TaskService{
		TasksCollection: tasksCollection,
		UsersCollection: usersCollection,
	}
}

// ValidRating reports whether a task rating is inside the 0-5 scale.
func ValidRating(rating float64) bool {
	return rating >= 0 && rating <= 5
}

func (s *TaskService) CreateTask(ctx context.Context, principal models.Principal, title, description string, assignedTo []primitive.ObjectID, dueDate time.Time) (models.Task, error) {
	if title == "" || description == "" || dueDate.IsZero() {
		return models.Task{}, utils.NewValidationError("All fields are required")
	}
	if len(assignedTo) == 0 {
		return models.Task{}, utils.NewValidationError("At least one assignee is required")
	}

	count, err := s.UsersCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": assignedTo}})
	if err != nil {
		return models.Task{}, err
	}
	if count != int64(len(assignedTo)) {
		return models.Task{}, utils.NewValidationError("One or more assignees not found")
	}

	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		AssignedTo:  assignedTo,
		AssignedBy:  principal.ID,
		DueDate:     dueDate,
		Status:      models.TaskPending,
		CreatedAt:   nowUTC(),
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context, page, limit int64, status models.TaskStatus) ([]models.Task, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if status != "" {
		if !status.Valid() {
			return nil, 0, utils.NewValidationError("Invalid task status")
		}
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.TasksCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}

	total, err := s.TasksCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return models.Task{}, utils.NewNotFoundError("Task not found")
	}
	return task, nil
}

// GetMyTasks lists the tasks the principal is assigned to. The filter pins
// the assignee to the caller for every role.
func (s *TaskService) GetMyTasks(ctx context.Context, principal models.Principal, status models.TaskStatus) ([]models.Task, error) {
	filter := scope.OwnTasks(principal)
	if status != "" {
		if !status.Valid() {
			return nil, utils.NewValidationError("Invalid task status")
		}
		filter = scope.Merge(scope.OwnTasks(principal), bson.M{"status": status})
	}

	cursor, err := s.TasksCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SubmitTask hands work in. The transition to completed is one conditional
// write: the filter requires the caller to be an assignee and the task to
// still be open, so two racing submissions cannot both land.
func (s *TaskService) SubmitTask(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, description, projectURL string) (models.Task, error) {
	if description == "" {
		return models.Task{}, utils.NewValidationError("Submission description is required")
	}

	submission := models.Submission{
		SubmittedAt: nowUTC(),
		Description: description,
		ProjectURL:  projectURL,
		SubmittedBy: principal.ID,
	}

	filter := bson.M{
		"_id":        taskID,
		"assignedTo": principal.ID,
		"status":     bson.M{"$in": bson.A{models.TaskPending, models.TaskInProgress}},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.TaskCompleted,
		"submission": submission,
	}}

	var task models.Task
	err := s.TasksCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&task)
	if err == nil {
		return task, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Task{}, err
	}

	// The conditional write missed; read the record once to report why.
	current, lookupErr := s.GetTask(ctx, taskID)
	if lookupErr != nil {
		return models.Task{}, utils.NewNotFoundError("Task not found")
	}
	if !assignedTo(current, principal.ID) {
		return models.Task{}, utils.NewForbiddenError("You are not assigned to this task")
	}
	return models.Task{}, utils.NewStateError("Task has already been submitted")
}

func assignedTo(task models.Task, userID primitive.ObjectID) bool {
	for _, id := range task.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// EvaluateTask grades a submitted task. The status filter makes the
// completed -> evaluated transition atomic; evaluating twice or before
// submission both miss the write.
func (s *TaskService) EvaluateTask(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, rating float64, feedback string) (models.Task, error) {
	if !ValidRating(rating) {
		return models.Task{}, utils.NewValidationError("Valid rating (0-5) is required")
	}

	evaluation := models.Evaluation{
		Rating:      rating,
		Feedback:    feedback,
		EvaluatedAt: nowUTC(),
		EvaluatedBy: principal.ID,
	}

	filter := bson.M{"_id": taskID, "status": models.TaskCompleted}
	update := bson.M{"$set": bson.M{
		"status":     models.TaskEvaluated,
		"evaluation": evaluation,
	}}

	var task models.Task
	err := s.TasksCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&task)
	if err == nil {
		return task, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Task{}, err
	}

	if _, lookupErr := s.GetTask(ctx, taskID); lookupErr != nil {
		return models.Task{}, utils.NewNotFoundError("Task not found")
	}
	return models.Task{}, utils.NewStateError("Task must be completed before evaluation")
}

// UpdateTaskInput is the admin override; it is not constrained by the
// workflow state.
type UpdateTaskInput struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	AssignedTo  *[]primitive.ObjectID `json:"assignedTo"`
	DueDate     *time.Time            `json:"dueDate"`
	Status      *models.TaskStatus    `json:"status"`
}

func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, input UpdateTaskInput) (models.Task, error) {
	set := bson.M{}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.AssignedTo != nil {
		if len(*input.AssignedTo) == 0 {
			return models.Task{}, utils.NewValidationError("At least one assignee is required")
		}
		set["assignedTo"] = *input.AssignedTo
	}
	if input.DueDate != nil {
		set["dueDate"] = *input.DueDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.Task{}, utils.NewValidationError("Invalid task status")
		}
		set["status"] = *input.Status
	}
	if len(set) == 0 {
		return models.Task{}, utils.NewValidationError("No fields to update")
	}

	var task models.Task
	err := s.TasksCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Task{}, utils.NewNotFoundError("Task not found")
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("Task not found")
	}
	return nil
}
