package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/scheduler"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- sentiment_feed:     pulls the collaborator sentiment feed (weekdays, pre-scoring)
- daily_ranking:      full scoring run over the universe (weekdays, post-close)
- outcome_evaluation: forward-return evaluation of recent rankings

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler list
  go run ./cmd/quant scheduler run daily_ranking
  go run ./cmd/quant scheduler status`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showJobStats,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func initScheduler() (*scheduler.Scheduler, *app, error) {
	app, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(app.log)

	if err := sched.AddJob(jobs.NewSentimentFeedJob(app.feed, app.cfg.Schedule.SentimentFeed, app.log)); err != nil {
		app.Close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewRankingJob(app.engine, app.cfg.Schedule.Ranking, app.log)); err != nil {
		app.Close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewOutcomesJob(app.evaluator, app.strategy.MaxHorizon(), app.cfg.Schedule.Outcomes, app.log)); err != nil {
		app.Close()
		return nil, nil, err
	}

	return sched, app, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	sched.Start()

	fmt.Println("Scheduler started. Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	fmt.Printf("Running job: %s\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob is asynchronous; keep the process alive until interrupted
	fmt.Println("Job started. Press Ctrl+C to exit")
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	return nil
}

func showJobStats(cmd *cobra.Command, args []string) error {
	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	stats := sched.GetJobStats()

	fmt.Println("Job statistics:")
	for jobName, stat := range stats {
		fmt.Printf("\n%s\n", jobName)
		fmt.Printf("  Schedule:  %s\n", stat.Schedule)
		fmt.Printf("  Runs:      %d\n", stat.TotalRuns)
		fmt.Printf("  Successes: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("  Failures:  %d\n", stat.FailureCount)
		if stat.LastRun != nil {
			fmt.Printf("  Last run:  %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
