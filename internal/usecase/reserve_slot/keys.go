package reserve_slot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// lockKeys возвращает ключи блокировки для резервирования interval.
// Ключ описывает локальный день тенанта, в котором начинается бронирование этого типа сессии.
// Любое бронирование, пересекающееся с interval, начинается в [start - maxSession, end),
// поэтому два пересекающихся резервирования всегда делят хотя бы один ключ.
func lockKeys(loc *time.Location, tenantID, sessionTypeID uuid.UUID, interval domain.Interval, maxSessionMinutes int) []string {
	first := availability.LocalDate(loc, interval.Start.AddMinutes(-maxSessionMinutes))
	last := availability.LocalDate(loc, interval.End-1)

	keys := make([]string, 0, 2)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		keys = append(keys, fmt.Sprintf("reserve:%s:%s:%s", tenantID, sessionTypeID, day.Format(domain.DateFormat)))
	}
	return keys
}
