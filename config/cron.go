package config

// CronJob pairs a schedule expression with the function it runs.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Merged with the jobs
// registered via cron.Register by the scheduler. The built-in stock jobs
// register themselves from the jobs package init.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
