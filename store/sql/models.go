package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type loginActivityRecord struct {
	bun.BaseModel `bun:"table:bridge_login_activity,alias:bla"`

	ID         string    `bun:"id,pk"`
	Identity   string    `bun:"identity,notnull"`
	Stage      string    `bun:"stage,notnull"`
	State      string    `bun:"state,notnull"`
	Status     int       `bun:"status,notnull"`
	ErrCode    string    `bun:"errcode,notnull"`
	OccurredAt time.Time `bun:"occurred_at,nullzero,notnull,default:current_timestamp"`
}
