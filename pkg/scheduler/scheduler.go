// Package scheduler 基于 cron 表达式的定时任务（秒级精度）
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/wyfcoding/optionrisk/pkg/logger"
)

// Runner 定时任务执行器，任务共享同一个基础 context
type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

// New 创建执行器；同一任务上一次未结束时跳过本次触发
func New(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		baseCtx: baseCtx,
	}
}

// Add 注册任务，spec 支持 6 段表达式及 @every/@daily 等描述符
func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if r.baseCtx.Err() != nil {
			return
		}
		job(r.baseCtx)
	})
}

// Start 启动调度
func (r *Runner) Start() {
	logger.Info(r.baseCtx, "scheduler started", "entries", len(r.cron.Entries()))
	r.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	logger.Info(context.Background(), "scheduler stopped")
}
