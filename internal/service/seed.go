package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/cryptox"
	"github.com/taskward/taskward/pkg/idx"
	"github.com/taskward/taskward/pkg/slogx"
)

// SeedService wipes the database and loads a known fixture: one admin, three
// ordinary users, four projects and eight tasks. Intended for development and
// demo environments.
type SeedService struct {
	Store      store.Store
	BcryptCost int
}

type SeedResult struct {
	Users    int `json:"users"`
	Projects int `json:"projects"`
	Tasks    int `json:"tasks"`
}

// Run executes the reset and the inserts inside a single transaction, so a
// half-seeded database is never observable.
func (s *SeedService) Run(ctx context.Context) (SeedResult, error) {
	l := slogx.FromContext(ctx)

	adminHash, err := cryptox.HashPassword("Admin123!", s.BcryptCost)
	if err != nil {
		return SeedResult{}, mapStoreErr(err)
	}
	userHash, err := cryptox.HashPassword("User123!", s.BcryptCost)
	if err != nil {
		return SeedResult{}, mapStoreErr(err)
	}

	var result SeedResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().DeleteAllTasks(ctx); err != nil {
			return err
		}
		if err := tx.Projects().DeleteAllProjects(ctx); err != nil {
			return err
		}
		if err := tx.Users().DeleteAllUsers(ctx); err != nil {
			return err
		}

		users := []domain.User{
			{ID: idx.New(), Email: "admin@example.com", PasswordHash: adminHash, Fullname: "System Administrator", Role: domain.RoleAdmin, IsActive: true},
			{ID: idx.New(), Email: "user1@example.com", PasswordHash: userHash, Fullname: "User One", Role: domain.RoleUser, IsActive: true},
			{ID: idx.New(), Email: "user2@example.com", PasswordHash: userHash, Fullname: "User Two", Role: domain.RoleUser, IsActive: true},
			{ID: idx.New(), Email: "user3@example.com", PasswordHash: userHash, Fullname: "User Three", Role: domain.RoleUser, IsActive: true},
		}
		for _, u := range users {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
		}
		admin, user1, user2 := users[0], users[1], users[2]

		projects := []domain.Project{
			{ID: idx.New(), Title: "Project Management System", Description: "A system to manage projects and tasks", Status: domain.StatusInProgress, OwnerUserID: admin.ID},
			{ID: idx.New(), Title: "Mobile Sales App", Description: "Mobile app for field sales management", Status: domain.StatusPending, OwnerUserID: user1.ID},
			{ID: idx.New(), Title: "Corporate Web Portal", Description: "Institutional site with news and events", Status: domain.StatusInProgress, OwnerUserID: user1.ID},
			{ID: idx.New(), Title: "Integration API", Description: "REST API for third-party integrations", Status: domain.StatusCompleted, OwnerUserID: user2.ID},
		}
		for _, p := range projects {
			if err := tx.Projects().CreateProject(ctx, p); err != nil {
				return err
			}
		}

		tasks := []domain.Task{
			{Title: "Design database schema", Description: "Entity-relationship model and schema", Status: domain.StatusCompleted, Priority: domain.PriorityHigh, ProjectID: projects[0].ID, AssigneeUserID: &user1.ID, DueDate: seedDate(2025, 11, 1)},
			{Title: "Build REST API", Description: "Endpoints for users, projects and tasks", Status: domain.StatusInProgress, Priority: domain.PriorityHigh, ProjectID: projects[0].ID, AssigneeUserID: &user1.ID, DueDate: seedDate(2025, 11, 15)},
			{Title: "Build user interface", Description: "Frontend design and implementation", Status: domain.StatusPending, Priority: domain.PriorityMedium, ProjectID: projects[0].ID, AssigneeUserID: &user2.ID, DueDate: seedDate(2025, 12, 1)},
			{Title: "Research mobile stacks", Description: "Evaluate React Native vs Flutter", Status: domain.StatusCompleted, Priority: domain.PriorityMedium, ProjectID: projects[1].ID, AssigneeUserID: &user1.ID, DueDate: seedDate(2025, 10, 20)},
			{Title: "Create wireframes", Description: "Mockups for the main screens", Status: domain.StatusInProgress, Priority: domain.PriorityMedium, ProjectID: projects[1].ID, AssigneeUserID: &user1.ID, DueDate: seedDate(2025, 11, 5)},
			{Title: "Configure CMS", Description: "Install and configure the content system", Status: domain.StatusInProgress, Priority: domain.PriorityHigh, ProjectID: projects[2].ID, AssigneeUserID: &user1.ID, DueDate: seedDate(2025, 11, 10)},
			{Title: "Design home page", Description: "Responsive design for the landing page", Status: domain.StatusPending, Priority: domain.PriorityMedium, ProjectID: projects[2].ID, AssigneeUserID: &user2.ID, DueDate: seedDate(2025, 11, 20)},
			{Title: "Document endpoints", Description: "OpenAPI documentation", Status: domain.StatusCompleted, Priority: domain.PriorityLow, ProjectID: projects[3].ID, AssigneeUserID: &user2.ID, DueDate: seedDate(2025, 10, 15)},
		}
		for i := range tasks {
			tasks[i].ID = idx.New()
			if err := tx.Tasks().CreateTask(ctx, tasks[i]); err != nil {
				return err
			}
		}

		result = SeedResult{Users: len(users), Projects: len(projects), Tasks: len(tasks)}
		return nil
	})
	if err != nil {
		return SeedResult{}, mapStoreErr(err)
	}

	l.Info("seed completed",
		slog.Int("users", result.Users),
		slog.Int("projects", result.Projects),
		slog.Int("tasks", result.Tasks),
	)
	return result, nil
}

func seedDate(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
