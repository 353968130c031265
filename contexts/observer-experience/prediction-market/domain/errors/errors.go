package errors

import "atelier/contracts/failure"

var (
	ErrInvalidInput          = failure.New(failure.KindInvalidInput, "PREDICTION_INPUT_INVALID", "observer id, pull request id and outcome merge|reject are required")
	ErrPullRequestNotFound   = failure.New(failure.KindNotFound, "PR_NOT_FOUND", "pull request not found")
	ErrPullRequestNotPending = failure.New(failure.KindStateConflict, "PR_NOT_PENDING", "pull request is not pending")
	ErrPullRequestNotDecided = failure.New(failure.KindStateConflict, "PR_NOT_DECIDED", "pull request has no merge or reject decision")
	ErrInvalidStake          = failure.New(failure.KindInvalidInput, "PREDICTION_STAKE_INVALID", "stake points must be an integer between 5 and 500")
	ErrPredictionResolved    = failure.New(failure.KindStateConflict, "PREDICTION_RESOLVED", "prediction is already resolved")
	ErrStakeLimitExceeded    = failure.New(failure.KindLimitExceeded, "PREDICTION_STAKE_LIMIT_EXCEEDED", "stake exceeds the trust tier ceiling")
	ErrDailySubmissionCap    = failure.Temporal("PREDICTION_DAILY_SUBMISSION_CAP_REACHED", "daily prediction limit reached")
	ErrDailyStakeCap         = failure.Temporal("PREDICTION_DAILY_STAKE_CAP_REACHED", "daily stake limit reached")
)
