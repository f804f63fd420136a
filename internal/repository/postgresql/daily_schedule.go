package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

// listDailySchedules loads the schedules of the given owners grouped by owner id.
func listDailySchedules(ctx context.Context, q database.Querier, source schedule.Source, ownerIDs []string) (map[string][]schedule.DailySchedule, error) {
	result := make(map[string][]schedule.DailySchedule, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, source, owner_id, weekday, active,
			   to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
			   has_break, to_char(break_start, 'HH24:MI'), to_char(break_end, 'HH24:MI')
		FROM daily_schedules
		WHERE source = $1
		  AND owner_id = ANY($2::uuid[])
		ORDER BY owner_id, weekday
	`

	rows, err := q.Query(ctx, query, string(source), ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s schedules: %w", source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ds                   schedule.DailySchedule
			weekday              int
			start, end           string
			breakStart, breakEnd *string
		)
		if err := rows.Scan(
			&ds.ID, &ds.Source, &ds.OwnerID, &weekday, &ds.Active,
			&start, &end,
			&ds.HasBreak, &breakStart, &breakEnd,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		ds.Weekday = time.Weekday(weekday)
		if ds.StartTime, err = schedule.ParseTimeOfDay(start); err != nil {
			return nil, err
		}
		if ds.EndTime, err = schedule.ParseTimeOfDay(end); err != nil {
			return nil, err
		}
		if ds.BreakStart, err = parseOptionalTimeOfDay(breakStart); err != nil {
			return nil, err
		}
		if ds.BreakEnd, err = parseOptionalTimeOfDay(breakEnd); err != nil {
			return nil, err
		}

		result[ds.OwnerID] = append(result[ds.OwnerID], ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return result, nil
}

func parseOptionalTimeOfDay(value *string) (*schedule.TimeOfDay, error) {
	if value == nil {
		return nil, nil
	}
	t, err := schedule.ParseTimeOfDay(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalTimeOfDay(t *schedule.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
