package stats

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

const (
	DefaultWindow = 7
	MaxWindow     = 7
)

var ErrWindowTooLarge = errors.New("time series window must be between 1 and 7 days")

// Engine answers the dashboard read queries from the store. An empty date
// argument means today according to the engine's clock.
type Engine struct {
	db    *gorm.DB
	clock models.Clock
}

func NewEngine(db *gorm.DB, clock models.Clock) *Engine {
	return &Engine{db: db, clock: clock}
}

func (e *Engine) Today() string {
	return e.clock.Today()
}

func (e *Engine) day(date string) string {
	if date == "" {
		return e.clock.Today()
	}
	return date
}

func (e *Engine) allTasks(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order("created_at ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "loading tasks")
	}
	return tasks, nil
}

func (e *Engine) members(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Where("role <> ?", models.RoleAdmin).
		Order("name ASC").Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "loading members")
	}
	return users, nil
}

func (e *Engine) completionsOn(db *gorm.DB, date string, userID string) ([]models.Completion, error) {
	q := db.Where("completed_on = ?", date)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var completions []models.Completion
	if err := q.Find(&completions).Error; err != nil {
		return nil, errors.Wrap(err, "loading completions")
	}
	return completions, nil
}

// TasksVisibleTo lists the tasks assigned to everyone or to the user.
func (e *Engine) TasksVisibleTo(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := e.db.WithContext(ctx).
		Where("assigned_to = ? OR assigned_to = ?", models.AssignEveryone, userID).
		Order("created_at ASC").Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "loading tasks")
	}
	return tasks, nil
}

func (e *Engine) DailyStats(ctx context.Context, userID, date string) (DailyStats, error) {
	date = e.day(date)

	tasks, err := e.TasksVisibleTo(ctx, userID)
	if err != nil {
		return DailyStats{}, err
	}
	completions, err := e.completionsOn(e.db.WithContext(ctx), date, userID)
	if err != nil {
		return DailyStats{}, err
	}

	st := Daily(userID, tasks, completions)
	st.Date = date
	return st, nil
}

// TimeSeries sums points per day over the trailing window ending today,
// oldest first. Days without completions are reported as zero. A nil userID
// sums over everyone.
func (e *Engine) TimeSeries(ctx context.Context, userID *string, days int) ([]DayPoints, error) {
	if days == 0 {
		days = DefaultWindow
	}
	if days < 1 || days > MaxWindow {
		return nil, ErrWindowTooLarge
	}
	dates := e.clock.LastDays(days)

	type dayRow struct {
		Date   string
		Points float64
	}
	q := e.db.WithContext(ctx).Model(&models.Completion{}).
		Select("completed_on AS date, SUM(points) AS points").
		Where("completed_on IN ?", dates)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []dayRow
	if err := q.Group("completed_on").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "summing points per day")
	}

	byDay := make(map[string]float64, len(rows))
	for _, r := range rows {
		byDay[r.Date] = r.Points
	}

	series := make([]DayPoints, 0, len(dates))
	for _, d := range dates {
		series = append(series, DayPoints{Date: d, Points: byDay[d]})
	}
	return series, nil
}

// GroupTotals reports every group with its member count and the points its
// members earned on date, best group first.
func (e *Engine) GroupTotals(ctx context.Context, date string) ([]models.GroupSummary, error) {
	date = e.day(date)
	db := e.db.WithContext(ctx)

	var groups []models.Group
	if err := db.Find(&groups).Error; err != nil {
		return nil, errors.Wrap(err, "loading groups")
	}

	type countRow struct {
		GroupID string
		Count   int
	}
	var counts []countRow
	if err := db.Model(&models.User{}).
		Select("group_id, COUNT(*) AS count").
		Where("role <> ? AND group_id IS NOT NULL", models.RoleAdmin).
		Group("group_id").
		Scan(&counts).Error; err != nil {
		return nil, errors.Wrap(err, "counting members")
	}
	countMap := make(map[string]int, len(counts))
	for _, c := range counts {
		countMap[c.GroupID] = c.Count
	}

	type pointsRow struct {
		GroupID string
		Points  float64
	}
	var points []pointsRow
	if err := db.Model(&models.Completion{}).
		Select("users.group_id AS group_id, SUM(completions.points) AS points").
		Joins("JOIN users ON users.id = completions.user_id").
		Where("completions.completed_on = ? AND users.group_id IS NOT NULL AND users.role <> ?", date, models.RoleAdmin).
		Group("users.group_id").
		Scan(&points).Error; err != nil {
		return nil, errors.Wrap(err, "summing group points")
	}
	pointsMap := make(map[string]float64, len(points))
	for _, p := range points {
		pointsMap[p.GroupID] = p.Points
	}

	totals := make([]models.GroupSummary, 0, len(groups))
	for _, g := range groups {
		totals = append(totals, models.GroupSummary{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: countMap[g.ID],
			Points:      pointsMap[g.ID],
		})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		if totals[i].Name != totals[j].Name {
			return totals[i].Name < totals[j].Name
		}
		return totals[i].ID < totals[j].ID
	})
	return totals, nil
}

// Leaderboard ranks every member by the points earned on date.
func (e *Engine) Leaderboard(ctx context.Context, date string) ([]LeaderboardEntry, error) {
	date = e.day(date)
	db := e.db.WithContext(ctx)

	users, err := e.members(db)
	if err != nil {
		return nil, err
	}
	tasks, err := e.allTasks(db)
	if err != nil {
		return nil, err
	}
	completions, err := e.completionsOn(db, date, "")
	if err != nil {
		return nil, err
	}

	var groups []models.Group
	if err := db.Find(&groups).Error; err != nil {
		return nil, errors.Wrap(err, "loading groups")
	}
	groupName := make(map[string]string, len(groups))
	for _, g := range groups {
		groupName[g.ID] = g.Name
	}

	byUser := make(map[string][]models.Completion)
	for _, c := range completions {
		byUser[c.UserID] = append(byUser[c.UserID], c)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		st := Daily(u.ID, tasks, byUser[u.ID])
		entry := LeaderboardEntry{
			UserID:          u.ID,
			Name:            u.Name,
			GroupID:         u.GroupID,
			Points:          st.EarnedPoints,
			PercentComplete: st.PercentComplete,
		}
		if u.GroupID != nil {
			entry.GroupName = groupName[*u.GroupID]
		}
		entries = append(entries, entry)
	}
	return RankLeaderboard(entries), nil
}

// Agenda pairs each task visible to the user with its completion on date.
func (e *Engine) Agenda(ctx context.Context, userID, date string) ([]AgendaItem, error) {
	date = e.day(date)

	tasks, err := e.TasksVisibleTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	completions, err := e.completionsOn(e.db.WithContext(ctx), date, userID)
	if err != nil {
		return nil, err
	}

	byTask := make(map[string]*models.Completion, len(completions))
	for i := range completions {
		byTask[completions[i].TaskID] = &completions[i]
	}

	items := make([]AgendaItem, 0, len(tasks))
	for _, t := range tasks {
		c := byTask[t.ID]
		items = append(items, AgendaItem{
			Task:       t,
			MaxPoints:  t.MaxPoints(),
			Done:       c != nil,
			Completion: c,
		})
	}
	return items, nil
}

// GroupMembers lists the members of one group with their points on date.
func (e *Engine) GroupMembers(ctx context.Context, groupID, date string) ([]MemberPoints, error) {
	date = e.day(date)
	db := e.db.WithContext(ctx)

	var users []models.User
	if err := db.Where("group_id = ? AND role <> ?", groupID, models.RoleAdmin).
		Order("name ASC").Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "loading group members")
	}
	if len(users) == 0 {
		return []MemberPoints{}, nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	type userRow struct {
		UserID string
		Points float64
	}
	var rows []userRow
	if err := db.Model(&models.Completion{}).
		Select("user_id, SUM(points) AS points").
		Where("completed_on = ? AND user_id IN ?", date, ids).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "summing member points")
	}
	pointsMap := make(map[string]float64, len(rows))
	for _, r := range rows {
		pointsMap[r.UserID] = r.Points
	}

	members := make([]MemberPoints, 0, len(users))
	for _, u := range users {
		members = append(members, MemberPoints{UserID: u.ID, Name: u.Name, Points: pointsMap[u.ID]})
	}
	return members, nil
}

// Overview is the admin summary for one day.
func (e *Engine) Overview(ctx context.Context, date string) (Overview, error) {
	date = e.day(date)
	db := e.db.WithContext(ctx)
	ov := Overview{Date: date}

	var members, groups int64
	if err := db.Model(&models.User{}).Where("role <> ?", models.RoleAdmin).Count(&members).Error; err != nil {
		return Overview{}, errors.Wrap(err, "counting members")
	}
	if err := db.Model(&models.Group{}).Count(&groups).Error; err != nil {
		return Overview{}, errors.Wrap(err, "counting groups")
	}
	ov.Members = int(members)
	ov.Groups = int(groups)

	tasks, err := e.allTasks(db)
	if err != nil {
		return Overview{}, err
	}
	ov.Tasks = len(tasks)

	completions, err := e.completionsOn(db, date, "")
	if err != nil {
		return Overview{}, err
	}
	perTask := make(map[string]int)
	for _, c := range completions {
		ov.TotalPoints += c.Points
		perTask[c.TaskID]++
	}
	ov.Completions = len(completions)

	ov.TaskCompletions = make([]TaskCompletions, 0, len(tasks))
	for _, t := range tasks {
		ov.TaskCompletions = append(ov.TaskCompletions, TaskCompletions{
			TaskID:      t.ID,
			Title:       t.Title,
			Completions: perTask[t.ID],
		})
	}
	return ov, nil
}
