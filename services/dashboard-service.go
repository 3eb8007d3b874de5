package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/scope"
)

type DashboardService struct {
	UserCollection       *mongo.Collection
	ProjectCollection    *mongo.Collection
	TaskCollection       *mongo.Collection
	LeaveCollection      *mongo.Collection
	AttendanceCollection *mongo.Collection
}

func NewDashboardService(users, projects, tasks, leaves, attendances *mongo.Collection) *DashboardService {
	return &DashboardService{
		UserCollection:       users,
		ProjectCollection:    projects,
		TaskCollection:       tasks,
		LeaveCollection:      leaves,
		AttendanceCollection: attendances,
	}
}

// AdminStats is the admin dashboard snapshot.
type AdminStats struct {
	TotalEmployees       int64   `json:"totalEmployees"`
	TotalProjects        int64   `json:"totalProjects"`
	PendingLeaves        int64   `json:"pendingLeaves"`
	ActiveTasks          int64   `json:"activeTasks"`
	PresentToday         int64   `json:"presentToday"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// AdminDashboard aggregates the org-wide counters shown on the admin home
// page. Today's attendance percentage compares present and half-day rows
// against the employee headcount.
func (s *DashboardService) AdminDashboard(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	var err error

	stats.TotalEmployees, err = s.UserCollection.CountDocuments(ctx, bson.M{"role": models.RoleClient})
	if err != nil {
		return AdminStats{}, err
	}
	stats.TotalProjects, err = s.ProjectCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return AdminStats{}, err
	}
	stats.PendingLeaves, err = s.LeaveCollection.CountDocuments(ctx, bson.M{"status": models.LeavePending})
	if err != nil {
		return AdminStats{}, err
	}
	stats.ActiveTasks, err = s.TaskCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []models.TaskStatus{models.TaskPending, models.TaskInProgress}},
	})
	if err != nil {
		return AdminStats{}, err
	}

	today := NormalizeDate(nowUTC())
	stats.PresentToday, err = s.AttendanceCollection.CountDocuments(ctx, bson.M{
		"date":   today,
		"status": bson.M{"$in": []models.AttendanceStatus{models.AttendancePresent, models.AttendanceHalfDay}},
	})
	if err != nil {
		return AdminStats{}, err
	}

	if stats.TotalEmployees > 0 {
		stats.AttendancePercentage = float64(stats.PresentToday) / float64(stats.TotalEmployees) * 100
	}
	return stats, nil
}

// ClientStats is the employee dashboard snapshot, scoped to the caller.
type ClientStats struct {
	TotalProjects     int64 `json:"totalProjects"`
	ActiveProjects    int64 `json:"activeProjects"`
	CompletedProjects int64 `json:"completedProjects"`
	PendingTasks      int64 `json:"pendingTasks"`
	CompletedTasks    int64 `json:"completedTasks"`
	PendingLeaves     int64 `json:"pendingLeaves"`
}

func (s *DashboardService) ClientDashboard(ctx context.Context, principal models.Principal) (ClientStats, error) {
	var stats ClientStats
	var err error

	projectScope := scope.Projects(principal)
	stats.TotalProjects, err = s.ProjectCollection.CountDocuments(ctx, projectScope)
	if err != nil {
		return ClientStats{}, err
	}
	stats.ActiveProjects, err = s.ProjectCollection.CountDocuments(ctx,
		scope.Merge(scope.Projects(principal), bson.M{"status": models.ProjectActive}))
	if err != nil {
		return ClientStats{}, err
	}
	stats.CompletedProjects, err = s.ProjectCollection.CountDocuments(ctx,
		scope.Merge(scope.Projects(principal), bson.M{"status": models.ProjectCompleted}))
	if err != nil {
		return ClientStats{}, err
	}

	stats.PendingTasks, err = s.TaskCollection.CountDocuments(ctx,
		scope.Merge(scope.Tasks(principal), bson.M{
			"status": bson.M{"$in": []models.TaskStatus{models.TaskPending, models.TaskInProgress}},
		}))
	if err != nil {
		return ClientStats{}, err
	}
	stats.CompletedTasks, err = s.TaskCollection.CountDocuments(ctx,
		scope.Merge(scope.Tasks(principal), bson.M{
			"status": bson.M{"$in": []models.TaskStatus{models.TaskCompleted, models.TaskEvaluated}},
		}))
	if err != nil {
		return ClientStats{}, err
	}

	stats.PendingLeaves, err = s.LeaveCollection.CountDocuments(ctx,
		scope.Merge(scope.Leaves(principal), bson.M{"status": models.LeavePending}))
	if err != nil {
		return ClientStats{}, err
	}
	return stats, nil
}
