package daykey

import (
	"math"
	"time"

	"github.com/ncruces/go-strftime"
)

const MillisPerDay int64 = 24 * 60 * 60 * 1000

// HeaderLayout renders a day as MM/DD/YYYY in UTC.
const HeaderLayout = "%m/%d/%Y GMT"

// MinMillis is the earliest timestamp whose day start fits in an int64.
const MinMillis int64 = math.MinInt64 / MillisPerDay * MillisPerDay

// DayKey is a timestamp in milliseconds truncated to UTC midnight.
type DayKey int64

// Truncate floors millis to the start of its UTC day. Pre-epoch timestamps
// round toward the earlier day. Values below MinMillis clamp to MinMillis.
func Truncate(millis int64) DayKey {
	if millis < MinMillis {
		return DayKey(MinMillis)
	}
	days := millis / MillisPerDay
	if millis%MillisPerDay < 0 {
		days--
	}
	return DayKey(days * MillisPerDay)
}

func (d DayKey) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

func (d DayKey) Format() string {
	return strftime.Format(HeaderLayout, d.Time())
}

func (d DayKey) String() string { return d.Format() }
