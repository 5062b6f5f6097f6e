package email

const (
	subjectApplicationReceivedFmt = "New application for %s"
	subjectJobPostedFmt           = "Your posting %s is live"
)
