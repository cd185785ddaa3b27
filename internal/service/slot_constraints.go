package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

func validPeriod(period int) bool {
	return period >= models.MinPeriod && period <= models.MaxPeriod
}

func sessionTypeOrDefault(raw string) models.SessionType {
	if raw == "" {
		return models.SessionTheory
	}
	return models.SessionType(raw)
}

// resolveDay keeps an explicit day label or derives it from the calendar date.
func resolveDay(day string, date time.Time) (string, error) {
	if strings.TrimSpace(day) != "" {
		return day, nil
	}
	weekday := date.Weekday()
	if weekday == time.Sunday {
		return "", appErrors.Clone(appErrors.ErrValidation, "date falls on a Sunday; no teaching day")
	}
	return weekday.String(), nil
}

// exceedsContinuity reports whether adding period to the occupied set would leave the
// faculty member with a run longer than models.MaxContinuousPeriods. Both directions
// are inspected so that filling a gap in front of an existing run is caught too.
func exceedsContinuity(occupied map[int]bool, period int) bool {
	run := 1
	for p := period - 1; p >= period-models.MaxContinuousPeriods && occupied[p]; p-- {
		run++
	}
	for p := period + 1; p <= period+models.MaxContinuousPeriods && occupied[p]; p++ {
		run++
	}
	return run > models.MaxContinuousPeriods
}

func occupiedPeriods(slots []models.TimetableSlot, excludeID string) map[int]bool {
	occupied := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if excludeID != "" && slot.ID == excludeID {
			continue
		}
		occupied[slot.Period] = true
	}
	return occupied
}

func hasSkill(skills []string, subject string) bool {
	subject = strings.TrimSpace(subject)
	for _, skill := range skills {
		if strings.EqualFold(strings.TrimSpace(skill), subject) {
			return true
		}
	}
	return false
}

func overloadError(faculty *models.Faculty) error {
	return appErrors.Clone(appErrors.ErrOverload, fmt.Sprintf("Overload: faculty has reached max hours limit (%gh)", faculty.MaxHours))
}

func clashError(base *appErrors.Error, dimension string, existing *models.TimetableSlot) error {
	conflict := models.SlotConflict{
		SlotID:       existing.ID,
		FacultyID:    existing.FacultyID,
		DepartmentID: existing.DepartmentID,
		ClassYear:    existing.ClassYear,
		Date:         existing.DateString(),
		Period:       existing.Period,
		Dimension:    dimension,
	}
	clash := appErrors.Clone(base, "")
	clash.Details = conflict
	clash.Err = &models.SlotConflictError{Dimension: dimension, Message: base.Message, Conflict: conflict}
	return clash
}
