package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func solveTaskStatusKey(taskID int64) string {
	return fmt.Sprintf("solve_task_%d_status", taskID)
}

func (h *Handler) SubmitSolveTask(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)

	var req struct {
		MaxJobsPerEmployee *int32   `json:"maxJobsPerEmployee" validate:"omitempty,min=1"`
		MaxJobDuration     *int32   `json:"maxJobDuration" validate:"omitempty,min=1"`
		SolutionCount      *int32   `json:"solutionCount" validate:"omitempty,min=1"`
		RelativeGap        *float64 `json:"relativeGap" validate:"omitempty,min=0"`
		TimeLimitSeconds   *float64 `json:"timeLimitSeconds" validate:"omitempty,gt=0"`
		NotifyEmail        string   `json:"notifyEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 没有显式指定的参数使用配置中的默认策略
	task := &domain.SolveTask{
		InstanceID:         instance.ID,
		MaxJobsPerEmployee: h.config.Solver.MaxJobsPerEmployee,
		MaxJobDuration:     h.config.Solver.MaxJobDuration,
		SolutionCount:      h.config.Solver.SolutionCount,
		RelativeGap:        h.config.Solver.RelativeGap,
		TimeLimitSeconds:   h.config.Solver.TimeLimitSeconds,
		NotifyEmail:        req.NotifyEmail,
		Status:             domain.SolveTaskStatusQueued,
	}
	if req.MaxJobsPerEmployee != nil {
		task.MaxJobsPerEmployee = *req.MaxJobsPerEmployee
	}
	if req.MaxJobDuration != nil {
		task.MaxJobDuration = *req.MaxJobDuration
	}
	if req.SolutionCount != nil {
		task.SolutionCount = *req.SolutionCount
	}
	if req.RelativeGap != nil {
		task.RelativeGap = *req.RelativeGap
	}
	if req.TimeLimitSeconds != nil {
		task.TimeLimitSeconds = *req.TimeLimitSeconds
	}

	if err := h.repository.CreateSolveTask(task); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 序列化求解任务
	messageData, err := json.Marshal(domain.SolveTaskMessage{TaskID: task.ID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将求解任务发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.solveChannel.PublishWithContext(
		ctx,
		"",
		"solve_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        messageData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 把状态写进 redis，状态查询接口优先读缓存
	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Set(ctx, solveTaskStatusKey(task.ID), string(task.Status), time.Duration(h.config.Redis.StatusExpiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "求解任务已提交", task)
}

func (h *Handler) GetInstanceSolveTasks(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)

	tasks, err := h.repository.GetSolveTasksByInstanceID(instance.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取求解任务列表成功", tasks)
}

func (h *Handler) GetSolveTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(SolveTaskCtx).(*domain.SolveTask)
	h.successResponse(w, r, "获取求解任务成功", task)
}

func (h *Handler) GetSolveTaskStatus(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(SolveTaskCtx).(*domain.SolveTask)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	// 优先读 redis 中的状态，缓存过期或丢失时退回数据库中的状态
	status, err := h.redisClient.Get(ctx, solveTaskStatusKey(task.ID)).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			status = string(task.Status)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "获取求解状态成功", map[string]string{"status": status})
}

func (h *Handler) GetSolveTaskSchedules(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(SolveTaskCtx).(*domain.SolveTask)

	switch task.Status {
	case domain.SolveTaskStatusFinished:
		// 继续获取排班表
	case domain.SolveTaskStatusInfeasible:
		h.errorResponse(w, r, "该实例不存在可行的排班表")
		return
	default:
		h.errorResponse(w, r, "求解尚未完成")
		return
	}

	schedules, err := h.repository.GetSchedulesByTaskID(task.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表成功", schedules)
}
