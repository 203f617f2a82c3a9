package mockdata

import (
	"time"

	"github.com/contractflow/dashboard/pkg/model"
)

// activityMonths is the number of calendar months in ContractStats.
const activityMonths = 6

// ContractStats summarizes the contracts visible to userID: status counts,
// created/signed/expired activity over the last six calendar months and the
// distribution of contract types.
func (d *Data) ContractStats(userID int) model.ContractStats {
	contracts := d.ContractsForUser(userID)
	now := d.now()

	stats := model.ContractStats{
		Total:            len(contracts),
		ActivityByMonth:  activityWindow(now),
		TypeDistribution: make(map[string]int),
	}

	monthIndex := func(t time.Time) int {
		t = t.In(now.Location())
		for i, m := range stats.ActivityByMonth {
			if m.Year == t.Year() && m.Month == t.Month().String()[:3] {
				return i
			}
		}
		return -1
	}
	eventTime := func(c model.Contract, action string) (time.Time, bool) {
		for _, h := range c.History {
			if h.Action == action {
				return h.Timestamp, true
			}
		}
		return time.Time{}, false
	}

	for _, c := range contracts {
		switch c.Status {
		case model.StatusDraft:
			stats.Draft++
		case model.StatusPending:
			stats.Pending++
		case model.StatusSigned:
			stats.Signed++
		case model.StatusExpired:
			stats.Expired++
		}
		stats.TypeDistribution[c.Type]++

		if i := monthIndex(c.CreatedAt); i >= 0 {
			stats.ActivityByMonth[i].Created++
		}
		switch c.Status {
		case model.StatusSigned:
			if t, ok := eventTime(c, "completed"); ok {
				if i := monthIndex(t); i >= 0 {
					stats.ActivityByMonth[i].Signed++
				}
			}
		case model.StatusExpired:
			if t, ok := eventTime(c, "expired"); ok {
				if i := monthIndex(t); i >= 0 {
					stats.ActivityByMonth[i].Expired++
				}
			}
		}
	}
	return stats
}

// activityWindow returns empty buckets for the six months ending with now's
// month, oldest first.
func activityWindow(now time.Time) []model.MonthActivity {
	months := make([]model.MonthActivity, 0, activityMonths)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := activityMonths - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		months = append(months, model.MonthActivity{Month: m.Month().String()[:3], Year: m.Year()})
	}
	return months
}
