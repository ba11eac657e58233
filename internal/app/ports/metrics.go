package ports

import "tilefarm/internal/domain/farm"

type FarmMetrics interface {
	RecordOutcome(intent farm.IntentType, code farm.ResultCode)
	RecordTick(changed bool)
	RecordSaveFailure()
}
