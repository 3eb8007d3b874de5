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

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	UsersCollection    *mongo.Collection
}

func NewProjectService(projectsCollection, usersCollection *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		UsersCollection:    usersCollection,
	}
}

func validateProject(p models.Project) error {
	if p.Name == "" || p.Description == "" || p.Client == "" {
		return utils.NewValidationError("Name, description and client are required")
	}
	if p.Manager.IsZero() {
		return utils.NewValidationError("Manager is required")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return utils.NewValidationError("Start and end dates are required")
	}
	if p.EndDate.Before(p.StartDate) {
		return utils.NewValidationError("End date must be on or after start date")
	}
	if p.LastDate != nil && p.LastDate.Before(p.StartDate) {
		return utils.NewValidationError("Last date must be on or after start date")
	}
	if !p.Status.Valid() {
		return utils.NewValidationError("Invalid project status")
	}
	if !p.Priority.Valid() {
		return utils.NewValidationError("Invalid project priority")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return utils.NewValidationError("Budget must be a non-negative number")
	}
	return nil
}

// checkMembersExist verifies that the manager and every team member resolve
// to real users before the reference is stored.
func (s *ProjectService) checkMembersExist(ctx context.Context, p models.Project) error {
	var manager models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": p.Manager}).Decode(&manager); err != nil {
		return utils.NewValidationError("Manager not found")
	}
	if len(p.Team) > 0 {
		count, err := s.UsersCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": p.Team}})
		if err != nil {
			return err
		}
		if count != int64(len(p.Team)) {
			return utils.NewValidationError("One or more team members not found")
		}
	}
	return nil
}

func (s *ProjectService) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	if project.Status == "" {
		project.Status = models.ProjectPlanning
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}
	if project.Team == nil {
		project.Team = []primitive.ObjectID{}
	}
	if err := validateProject(project); err != nil {
		return models.Project{}, err
	}
	if err := s.checkMembersExist(ctx, project); err != nil {
		return models.Project{}, err
	}

	project.ID = primitive.NewObjectID()
	project.CreatedAt = nowUTC()

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return s.findProjects(ctx, bson.M{})
}

// GetProjectsFor returns the projects visible to the principal; for a
// client that is team membership only.
func (s *ProjectService) GetProjectsFor(ctx context.Context, principal models.Principal) ([]models.Project, error) {
	return s.findProjects(ctx, scope.Projects(principal))
}

func (s *ProjectService) findProjects(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := s.ProjectsCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectFor loads one project through the principal's scope filter, so
// a foreign project reads as not found rather than forbidden.
func (s *ProjectService) GetProjectFor(ctx context.Context, principal models.Principal, id primitive.ObjectID) (models.Project, error) {
	filter := scope.Merge(scope.Projects(principal), bson.M{"_id": id})

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, filter).Decode(&project); err != nil {
		return models.Project{}, utils.NewNotFoundError("Project not found")
	}
	return project, nil
}

type UpdateProjectInput struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Client      *string                 `json:"client"`
	Manager     *primitive.ObjectID     `json:"manager"`
	Team        *[]primitive.ObjectID   `json:"team"`
	StartDate   *time.Time              `json:"startDate"`
	EndDate     *time.Time              `json:"endDate"`
	LastDate    *time.Time              `json:"lastDate"`
	Status      *models.ProjectStatus   `json:"status"`
	Priority    *models.ProjectPriority `json:"priority"`
	Budget      *float64                `json:"budget"`
}

func (s *ProjectService) UpdateProject(ctx context.Context, id primitive.ObjectID, input UpdateProjectInput) (models.Project, error) {
	var current models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		return models.Project{}, utils.NewNotFoundError("Project not found")
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Description != nil {
		current.Description = *input.Description
	}
	if input.Client != nil {
		current.Client = *input.Client
	}
	if input.Manager != nil {
		current.Manager = *input.Manager
	}
	if input.Team != nil {
		current.Team = *input.Team
	}
	if input.StartDate != nil {
		current.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		current.EndDate = *input.EndDate
	}
	if input.LastDate != nil {
		current.LastDate = input.LastDate
	}
	if input.Status != nil {
		current.Status = *input.Status
	}
	if input.Priority != nil {
		current.Priority = *input.Priority
	}
	if input.Budget != nil {
		current.Budget = input.Budget
	}

	if err := validateProject(current); err != nil {
		return models.Project{}, err
	}
	if input.Manager != nil || input.Team != nil {
		if err := s.checkMembersExist(ctx, current); err != nil {
			return models.Project{}, err
		}
	}

	if _, err := s.ProjectsCollection.ReplaceOne(ctx, bson.M{"_id": id}, current); err != nil {
		return models.Project{}, err
	}
	return current, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("Project not found")
	}
	return nil
}

// GetProjectTeam resolves the manager and team references of a project the
// principal can see.
func (s *ProjectService) GetProjectTeam(ctx context.Context, principal models.Principal, id primitive.ObjectID) (models.User, []models.User, error) {
	project, err := s.GetProjectFor(ctx, principal, id)
	if err != nil {
		return models.User{}, nil, err
	}

	var manager models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": project.Manager}).Decode(&manager); err == nil {
		manager.Password = ""
	}

	team := []models.User{}
	if len(project.Team) > 0 {
		cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": project.Team}})
		if err != nil {
			return models.User{}, nil, err
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &team); err != nil {
			return models.User{}, nil, err
		}
		for i := range team {
			team[i].Password = ""
		}
	}
	return manager, team, nil
}
