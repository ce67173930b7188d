package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/config"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/repository"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/solver"
	"github.com/wneessen/go-mail"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type worker struct {
	cfg        *config.Config
	logger     *slog.Logger
	repo       *repository.Repository
	rdb        *redis.Client
	mailClient *mail.Client
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	mailClient, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer mailClient.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := mailClient.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		"solve_queue", // 队列名称
		true,          // 是否持久化
		false,         // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,         // 是否独占，即是否允许多个消费者访问这个队列
		false,         // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,           // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 每次只取一个任务，求解是 CPU 密集型的，预取多个任务没有意义
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置预取数量", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动去仍消息
		false,  // 是否独占队列
		false,  // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wk := &worker{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		rdb:        rdb,
		mailClient: mailClient,
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到求解任务", slog.String("message", string(msg.Body)))

				// 对任务信息反序列化
				taskMessage := domain.SolveTaskMessage{}
				if err := json.Unmarshal(msg.Body, &taskMessage); err != nil {
					logger.Error("任务信息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if err := wk.processTask(taskMessage.TaskID); err != nil {
					logger.Error("处理求解任务失败", slog.Int64("task_id", taskMessage.TaskID), slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// 确认消息
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待求解任务...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 solver worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("solver worker 已成功关闭")
}

// processTask 处理一个求解任务，从读取任务到落库再到发送通知
// 返回错误表示任务本身没能处理（比如任务不存在），此时消息会被丢弃
func (wk *worker) processTask(taskID int64) error {
	task, err := wk.repo.GetSolveTaskByID(taskID)
	if err != nil {
		return fmt.Errorf("无法获取求解任务: %w", err)
	}

	// 已经处理过的任务直接跳过，消息可能因为 worker 崩溃被重新投递
	if task.Status != domain.SolveTaskStatusQueued {
		wk.logger.Info("任务已被处理过，跳过", slog.Int64("task_id", taskID), slog.String("status", string(task.Status)))
		return nil
	}

	instance, err := wk.repo.GetProblemInstanceByID(task.InstanceID)
	if err != nil {
		wk.markTask(task, domain.SolveTaskStatusFailed, "无法获取问题实例")
		return fmt.Errorf("无法获取问题实例: %w", err)
	}

	wk.markTask(task, domain.SolveTaskStatusSolving, "")

	s, err := solver.New(instance, &solver.Parameters{
		MaxJobsPerEmployee: task.MaxJobsPerEmployee,
		MaxJobDuration:     task.MaxJobDuration,
		SolutionCount:      task.SolutionCount,
		RelativeGap:        task.RelativeGap,
		TimeLimitSeconds:   task.TimeLimitSeconds,
	})
	if err != nil {
		wk.markTask(task, domain.SolveTaskStatusFailed, err.Error())
		wk.notify(task, instance, domain.SolveTaskStatusFailed, 0, 0)
		return nil
	}

	outcome, err := s.Solve()
	if err != nil {
		wk.markTask(task, domain.SolveTaskStatusFailed, err.Error())
		wk.notify(task, instance, domain.SolveTaskStatusFailed, 0, 0)
		return nil
	}

	switch outcome.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		if err := wk.repo.InsertSchedules(task.ID, outcome.Schedules); err != nil {
			wk.markTask(task, domain.SolveTaskStatusFailed, "排班表落库失败")
			return fmt.Errorf("排班表落库失败: %w", err)
		}
		wk.markTask(task, domain.SolveTaskStatusFinished, "")
		wk.notify(task, instance, domain.SolveTaskStatusFinished, outcome.Objective, len(outcome.Schedules))
	case solver.StatusInfeasible:
		wk.markTask(task, domain.SolveTaskStatusInfeasible, "")
		wk.notify(task, instance, domain.SolveTaskStatusInfeasible, 0, 0)
	default:
		wk.markTask(task, domain.SolveTaskStatusFailed, "求解超时，未能找到可行解")
		wk.notify(task, instance, domain.SolveTaskStatusFailed, 0, 0)
	}

	return nil
}

// markTask 同时更新数据库和 redis 中的任务状态
// redis 只是缓存，写失败时记条日志就够了，不能影响任务处理
func (wk *worker) markTask(task *domain.SolveTask, status domain.SolveTaskStatus, errorMessage string) {
	task.Status = status
	task.ErrorMessage = errorMessage
	if err := wk.repo.UpdateSolveTaskStatus(task); err != nil {
		wk.logger.Error("无法更新任务状态", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(wk.cfg.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	key := fmt.Sprintf("solve_task_%d_status", task.ID)
	if err := wk.rdb.Set(ctx, key, string(status), time.Duration(wk.cfg.Redis.StatusExpiration)*time.Second).Err(); err != nil {
		wk.logger.Error("无法更新 redis 中的任务状态", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
	}
}

// notify 发送求解完成的通知邮件，任务没有填写通知邮箱时不发送
func (wk *worker) notify(task *domain.SolveTask, instance *domain.ProblemInstance, status domain.SolveTaskStatus, objective int64, solutionCount int) {
	if task.NotifyEmail == "" {
		return
	}

	message := mail.NewMsg()
	if err := message.From(wk.cfg.Email.SMTP.Username); err != nil {
		wk.logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
		return
	}
	if err := message.To(task.NotifyEmail); err != nil {
		wk.logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
		return
	}

	tmpl, err := template.ParseFiles("./templates/solve_finished_email.html")
	if err != nil {
		wk.logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
		return
	}
	if err := message.SetBodyHTMLTemplate(tmpl, domain.SolveFinishedMailData{
		InstanceName:  instance.Name,
		Status:        string(status),
		Objective:     objective,
		SolutionCount: solutionCount,
	}); err != nil {
		wk.logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
		return
	}
	message.Subject("排班求解系统 - 求解结果通知")

	if err := wk.mailClient.DialAndSend(message); err != nil {
		wk.logger.Error("邮件发送失败", slog.String("error", err.Error()))
	}
}
