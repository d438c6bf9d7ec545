package dateutil

import (
	"time"
)

// Age calculates the age in whole years at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// FRABirthYear returns the birth year used for Full Retirement Age lookups.
// Per SSA convention, people born on January 1 use the prior year's rules.
func FRABirthYear(birthDate time.Time) int {
	year := birthDate.Year()
	if birthDate.Month() == time.January && birthDate.Day() == 1 {
		year--
	}
	return year
}

// FullRetirementAge calculates the Social Security Full Retirement Age
// (years, months) based on birth date
func FullRetirementAge(birthDate time.Time) (int, int) {
	birthYear := FRABirthYear(birthDate)

	switch {
	case birthYear <= 1937:
		return 65, 0
	case birthYear == 1938:
		return 65, 2
	case birthYear == 1939:
		return 65, 4
	case birthYear == 1940:
		return 65, 6
	case birthYear == 1941:
		return 65, 8
	case birthYear == 1942:
		return 65, 10
	case birthYear >= 1943 && birthYear <= 1954:
		return 66, 0
	case birthYear == 1955:
		return 66, 2
	case birthYear == 1956:
		return 66, 4
	case birthYear == 1957:
		return 66, 6
	case birthYear == 1958:
		return 66, 8
	case birthYear == 1959:
		return 66, 10
	default: // 1960 and later
		return 67, 0
	}
}

// DateAtAge returns the date a person born on birthDate reaches the given age
// in years and months. The birth day-of-month is preserved; when the target
// month is shorter, the last day of that month is used.
func DateAtAge(birthDate time.Time, years, months int) time.Time {
	targetYear := birthDate.Year() + years
	targetMonth := int(birthDate.Month()) + months
	for targetMonth > 12 {
		targetMonth -= 12
		targetYear++
	}

	day := birthDate.Day()
	last := DaysInMonth(targetYear, time.Month(targetMonth))
	if day > last {
		day = last
	}
	return time.Date(targetYear, time.Month(targetMonth), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// MonthKey collapses a (year, month) pair into a single comparable integer.
func MonthKey(year, month int) int {
	return year*12 + month
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}

// EndOfYear returns the last day of the year for a given date
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}
