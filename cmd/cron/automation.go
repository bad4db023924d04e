package main

import (
	"context"
	"log"
	"time"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type AutomationJob struct {
	Container *do.Injector
	Db        *bun.DB
}

func NewAutomationJob(container *do.Injector, db *bun.DB) *AutomationJob {
	return &AutomationJob{
		Container: container,
		Db:        db,
	}
}

func (j *AutomationJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_AUTOMATION)
	if err != nil {
		log.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		log.Println("No automation timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Automation Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
}

func (j *AutomationJob) runScheduledTask() {
	ctx := context.Background()

	serviceAutomation, err := do.Invoke[*services.ServiceAutomation](j.Container)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("Start daily automation run ...")
	report, err := serviceAutomation.Run(ctx, services.AutomationOptions{})
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("Automation run %s finished: %d/%d tasks completed in %dms\n", report.RunID, report.TasksCompleted, report.TasksTotal, report.DurationMS)
	for _, task := range report.Tasks {
		if task.Skipped {
			log.Printf("  %s: skipped\n", task.Name)
			continue
		}
		if task.Success {
			log.Printf("  %s: ok (%dms)\n", task.Name, task.DurationMS)
		} else {
			log.Printf("  %s: FAILED (%dms): %s\n", task.Name, task.DurationMS, task.Error)
		}
	}
}
