package services

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// TaskService handles task management. Authorization is done by the policy
// middleware before any method here runs: by the time a mentee or task
// reaches this layer it has already been resolved and ownership-checked.
type TaskService struct {
	taskRepo   repository.TaskRepositoryInterface
	uploadRepo repository.UploadRepositoryInterface
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepositoryInterface, uploadRepo repository.UploadRepositoryInterface) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		uploadRepo: uploadRepo,
	}
}

// CreateTask assigns a new task to the given mentee
func (s *TaskService) CreateTask(ctx context.Context, mentee *models.Mentee, req *models.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		MenteeID: mentee.ID,
		Task:     req.Task,
		Done:     false,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	logger.Info("Task created",
		zap.Int64("task_id", task.ID),
		zap.Int64("mentee_id", mentee.ID))

	return task, nil
}

// TasksForMentee returns the mentee's tasks and uploaded videos
func (s *TaskService) TasksForMentee(ctx context.Context, mentee *models.Mentee) (*models.MenteeTasksResponse, error) {
	tasks, err := s.taskRepo.ListByMentee(ctx, mentee.ID)
	if err != nil {
		return nil, err
	}

	videos, err := s.uploadRepo.ListByMentee(ctx, mentee.ID)
	if err != nil {
		return nil, err
	}

	return &models.MenteeTasksResponse{
		Mentee: mentee,
		Tasks:  tasks,
		Videos: videos,
	}, nil
}

// ToggleStatus flips the task's done flag and returns the updated task
func (s *TaskService) ToggleStatus(ctx context.Context, task *models.Task) (*models.Task, error) {
	newDone := !task.Done
	if err := s.taskRepo.SetDone(ctx, task.ID, newDone); err != nil {
		return nil, err
	}
	task.Done = newDone

	if newDone {
		metrics.TaskStatusToggles.WithLabelValues("done").Inc()
	} else {
		metrics.TaskStatusToggles.WithLabelValues("reopened").Inc()
	}
	logger.Debug("Task status toggled",
		zap.Int64("task_id", task.ID),
		zap.Bool("done", task.Done))

	return task, nil
}
