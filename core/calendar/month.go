package calendar

import (
	"fmt"
	"time"
)

// Month は年月を表します。
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf は時刻が属する月を返します。
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// First は月初日の 00:00 を返します。
func (m Month) First(zone *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, zone)
}

// Next は翌月を返します。
func (m Month) Next() Month {
	return m.add(1)
}

// Prev は前月を返します。
func (m Month) Prev() Month {
	return m.add(-1)
}

func (m Month) add(delta int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// monthsBehind は base から見て m が何ヶ月前かを返します。未来は負値です。
func monthsBehind(base, m Month) int {
	return (base.Year-m.Year)*12 + int(base.Month) - int(m.Month)
}

// Cursor は表示中の月を保持し、移動を当月と前月のみに制限します。
type Cursor struct {
	current Month
}

// NewCursor は now が属する月を指す Cursor を生成します。
func NewCursor(now time.Time) *Cursor {
	return &Cursor{current: MonthOf(now)}
}

// Current は表示中の月を返します。
func (c *Cursor) Current() Month {
	return c.current
}

// Shift は direction ヶ月の移動を試みます。到達可能な範囲は呼び出し時点の now を
// 基準に判定し、範囲外への移動は無視して false を返します。
func (c *Cursor) Shift(direction int, now time.Time) bool {
	target := c.current.add(direction)

	behind := monthsBehind(MonthOf(now), target)
	if behind < 0 || behind > 1 {
		return false
	}

	c.current = target
	return true
}
