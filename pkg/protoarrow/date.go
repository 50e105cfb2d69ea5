package protoarrow

import "github.com/apache/arrow-go/v18/arrow"

// CEOffset is the common-era day number of 1970-01-01, the Unix epoch
// Arrow's Date32 type counts from, when 0001-01-01 CE is day 1 (so
// 1970-01-01 lies 719162 days after 0001-01-01; civilToDays(1, 1, 1)
// is -719162).
const CEOffset = 719163

// hinnantEpochOffset is the number of days between 0000-03-01 (the
// epoch the days_from_civil algorithm below actually counts from) and
// 1970-01-01. It is an implementation detail of civilToDays, distinct
// from the externally documented CEOffset above.
const hinnantEpochOffset = 719468

// civilToDays converts a proleptic Gregorian (year, month, day) triple
// to a day count relative to 1970-01-01, using Howard Hinnant's
// days_from_civil algorithm. month is 1-12, day is 1-31.
func civilToDays(year, month, day int32) int32 {
	y := year
	if month <= 2 {
		y--
	}
	era := y
	if era < 0 {
		era = era - 399
	}
	era /= 400
	yoe := y - era*400 // [0, 399]
	var mp int32
	if month > 2 {
		mp = month - 3
	} else {
		mp = month + 9
	}
	doy := (153*mp+2)/5 + day - 1                  // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy          // [0, 146096]
	return era*146097 + doe - hinnantEpochOffset
}

// isValidCivilDate reports whether (year, month, day) is a real date
// on the proleptic Gregorian calendar.
func isValidCivilDate(year, month, day int32) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	leap := year%4 == 0 && (year%100 != 0 || year%400 == 0)
	daysInMonth := [...]int32{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := daysInMonth[month-1]
	if month == 2 && leap {
		max = 29
	}
	return day <= max
}

// date32Type is the Arrow type backing the Date composite, counting
// whole days since the Unix epoch.
var date32Type arrow.DataType = arrow.FixedWidthTypes.Date32
