package costing

import (
	"strconv"
	"time"
)

// Shift: номер смены 1..3, ShiftNone если определить нельзя.
type Shift int

const (
	ShiftNone   Shift = 0
	ShiftFirst  Shift = 1 // 08:00–16:00
	ShiftSecond Shift = 2 // 16:00–24:00
	ShiftThird  Shift = 3 // 00:00–08:00
)

func (s Shift) Valid() bool {
	return s >= ShiftFirst && s <= ShiftThird
}

// MarshalJSON отдаёт null для неизвестной смены.
func (s Shift) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(s))), nil
}

// ClassifyShift определяет смену по часу метки времени в её локации.
func ClassifyShift(ts time.Time) Shift {
	if ts.IsZero() {
		return ShiftNone
	}

	switch h := ts.Hour(); {
	case h >= 8 && h < 16:
		return ShiftFirst
	case h >= 16:
		return ShiftSecond
	default:
		return ShiftThird
	}
}

// ResolveShift: сохранённый код смены из {1,2,3} важнее вычисленного.
func ResolveShift(stored int, ts time.Time) Shift {
	if s := Shift(stored); s.Valid() {
		return s
	}
	return ClassifyShift(ts)
}
