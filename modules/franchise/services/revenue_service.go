package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
)

// Period is a reporting window anchored to the calendar: month, quarter
// and year snap to their calendar start, week is the trailing seven days.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Start returns the beginning of the period containing now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodQuarter:
		quarterStart := time.Month(((int(now.Month())-1)/3)*3 + 1)
		return time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	return now
}

// SettlementRow is one completed settlement visible to the revenue
// aggregations.
type SettlementRow struct {
	ClientID       int64
	SettlementType string
	Amount         decimal.Decimal
	CompletedAt    time.Time
}

// RevenueReadRepository is the read model over settlements and cases.
// Those aggregates are owned elsewhere; the engine only reads them.
type RevenueReadRepository interface {
	CompletedSettlements(ctx context.Context, clientIDs []int64, from, to time.Time) ([]SettlementRow, error)
	CaseCounts(ctx context.Context, clientIDs []int64) (total, active int64, err error)
	ActiveClientCount(ctx context.Context, clientIDs []int64) (int64, error)
}

// RevenueService aggregates settlement revenue and cascades percentage
// shares up the parent chain.
type RevenueService struct {
	orgs        organization.Repository
	assignments assignment.Repository
	memberships membership.Repository
	transfers   transfer.Repository
	revenue     RevenueReadRepository
}

func NewRevenueService(
	orgs organization.Repository,
	assignments assignment.Repository,
	memberships membership.Repository,
	transfers transfer.Repository,
	revenue RevenueReadRepository,
) *RevenueService {
	return &RevenueService{
		orgs:        orgs,
		assignments: assignments,
		memberships: memberships,
		transfers:   transfers,
		revenue:     revenue,
	}
}

type OrgStats struct {
	Clients             int64
	ActiveClients       int64
	Cases               int64
	ActiveCases         int64
	Revenue             decimal.Decimal
	Members             int64
	PendingTransfersIn  int64
	PendingTransfersOut int64
}

func (s *RevenueService) OrgStats(ctx context.Context, orgID uuid.UUID, includeChildren bool) (*OrgStats, error) {
	org, err := s.getOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeIDs(ctx, org, includeChildren)
	if err != nil {
		return nil, err
	}
	clientIDs, err := s.clientIDsIn(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &OrgStats{
		Clients: int64(len(clientIDs)),
		Revenue: decimal.Zero,
	}

	if len(clientIDs) > 0 {
		stats.ActiveClients, err = s.revenue.ActiveClientCount(ctx, clientIDs)
		if err != nil {
			return nil, mapPgError(err)
		}
		stats.Cases, stats.ActiveCases, err = s.revenue.CaseCounts(ctx, clientIDs)
		if err != nil {
			return nil, mapPgError(err)
		}
		rows, err := s.revenue.CompletedSettlements(ctx, clientIDs, time.Time{}, time.Now())
		if err != nil {
			return nil, mapPgError(err)
		}
		for _, row := range rows {
			stats.Revenue = stats.Revenue.Add(row.Amount)
		}
	}

	for _, id := range scope {
		members, err := s.memberships.CountByOrg(ctx, id)
		if err != nil {
			return nil, mapPgError(err)
		}
		stats.Members += members
	}

	stats.PendingTransfersIn, err = s.transfers.CountPendingIncoming(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}
	stats.PendingTransfersOut, err = s.transfers.CountPendingOutgoing(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}

	return stats, nil
}

type RevenueReport struct {
	Period  Period
	From    time.Time
	To      time.Time
	Total   decimal.Decimal
	ByType  map[string]decimal.Decimal
	ByMonth map[string]decimal.Decimal
}

func (s *RevenueService) RevenueReport(ctx context.Context, orgID uuid.UUID, period Period, includeChildren bool) (*RevenueReport, error) {
	if !period.IsValid() {
		return nil, errValidation("unknown period: " + string(period))
	}
	org, err := s.getOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeIDs(ctx, org, includeChildren)
	if err != nil {
		return nil, err
	}
	clientIDs, err := s.clientIDsIn(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &RevenueReport{
		Period:  period,
		From:    period.Start(now),
		To:      now,
		Total:   decimal.Zero,
		ByType:  map[string]decimal.Decimal{},
		ByMonth: map[string]decimal.Decimal{},
	}
	if len(clientIDs) == 0 {
		return report, nil
	}

	rows, err := s.revenue.CompletedSettlements(ctx, clientIDs, report.From, report.To)
	if err != nil {
		return nil, mapPgError(err)
	}
	for _, row := range rows {
		report.Total = report.Total.Add(row.Amount)
		report.ByType[row.SettlementType] = report.ByType[row.SettlementType].Add(row.Amount)
		monthKey := row.CompletedAt.Format("2006-01")
		report.ByMonth[monthKey] = report.ByMonth[monthKey].Add(row.Amount)
	}
	return report, nil
}

type ShareEntry struct {
	OrgID   uuid.UUID
	OrgName string
	Percent decimal.Decimal
	Amount  decimal.Decimal
}

type RevenueShareReport struct {
	OrgID        uuid.UUID
	Period       Period
	TotalRevenue decimal.Decimal
	NetRevenue   decimal.Decimal
	Shares       []ShareEntry
}

// RevenueShare cascades the organization's own revenue for the period up
// the parent chain: each ancestor takes the child's configured percent
// of what remains. sum(shares) + net == total always holds.
func (s *RevenueService) RevenueShare(ctx context.Context, orgID uuid.UUID, period Period) (*RevenueShareReport, error) {
	if !period.IsValid() {
		return nil, errValidation("unknown period: " + string(period))
	}
	org, err := s.getOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	clientIDs, err := s.clientIDsIn(ctx, []uuid.UUID{orgID})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	total := decimal.Zero
	if len(clientIDs) > 0 {
		rows, err := s.revenue.CompletedSettlements(ctx, clientIDs, period.Start(now), now)
		if err != nil {
			return nil, mapPgError(err)
		}
		for _, row := range rows {
			total = total.Add(row.Amount)
		}
	}

	report := &RevenueShareReport{
		OrgID:        orgID,
		Period:       period,
		TotalRevenue: total,
		Shares:       []ShareEntry{},
	}

	remaining := total
	child := org
	seen := map[uuid.UUID]struct{}{org.ID(): {}}
	for child.ParentID() != nil {
		parent, err := s.getOrg(ctx, *child.ParentID())
		if err != nil {
			return nil, err
		}
		if _, ok := seen[parent.ID()]; ok {
			return nil, errHierarchyViolation("cycle detected in parent chain")
		}
		seen[parent.ID()] = struct{}{}

		share := remaining.Mul(child.RevenueSharePercent()).Div(hundred)
		report.Shares = append(report.Shares, ShareEntry{
			OrgID:   parent.ID(),
			OrgName: parent.Name(),
			Percent: child.RevenueSharePercent(),
			Amount:  share,
		})
		remaining = remaining.Sub(share)
		child = parent
	}

	report.NetRevenue = remaining
	return report, nil
}

type OrgSummary struct {
	OrgID   uuid.UUID
	Name    string
	Type    organization.Type
	Clients int64
	Members int64
	Revenue decimal.Decimal
}

type ConsolidatedReport struct {
	Summary       *OrgStats
	Organizations []OrgSummary
}

// ConsolidatedReport returns subtree-wide stats plus one summary row per
// organization in the subtree.
func (s *RevenueService) ConsolidatedReport(ctx context.Context, orgID uuid.UUID) (*ConsolidatedReport, error) {
	org, err := s.getOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summary, err := s.OrgStats(ctx, orgID, true)
	if err != nil {
		return nil, err
	}

	subtree := []*organization.Organization{org}
	descendants, err := s.orgs.Descendants(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}
	subtree = append(subtree, descendants...)

	report := &ConsolidatedReport{Summary: summary}
	for _, node := range subtree {
		clientIDs, err := s.clientIDsIn(ctx, []uuid.UUID{node.ID()})
		if err != nil {
			return nil, err
		}
		members, err := s.memberships.CountByOrg(ctx, node.ID())
		if err != nil {
			return nil, mapPgError(err)
		}
		revenue := decimal.Zero
		if len(clientIDs) > 0 {
			rows, err := s.revenue.CompletedSettlements(ctx, clientIDs, time.Time{}, time.Now())
			if err != nil {
				return nil, mapPgError(err)
			}
			for _, row := range rows {
				revenue = revenue.Add(row.Amount)
			}
		}
		report.Organizations = append(report.Organizations, OrgSummary{
			OrgID:   node.ID(),
			Name:    node.Name(),
			Type:    node.Type(),
			Clients: int64(len(clientIDs)),
			Members: members,
			Revenue: revenue,
		})
	}
	return report, nil
}

func (s *RevenueService) getOrg(ctx context.Context, orgID uuid.UUID) (*organization.Organization, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}
	return org, nil
}

func (s *RevenueService) scopeIDs(ctx context.Context, org *organization.Organization, includeChildren bool) ([]uuid.UUID, error) {
	ids := []uuid.UUID{org.ID()}
	if !includeChildren {
		return ids, nil
	}
	descendants, err := s.orgs.Descendants(ctx, org.ID())
	if err != nil {
		return nil, mapPgError(err)
	}
	for _, d := range descendants {
		ids = append(ids, d.ID())
	}
	return ids, nil
}

func (s *RevenueService) clientIDsIn(ctx context.Context, orgIDs []uuid.UUID) ([]int64, error) {
	rows, err := s.assignments.ByOrgs(ctx, orgIDs)
	if err != nil {
		return nil, mapPgError(err)
	}
	seen := make(map[int64]struct{}, len(rows))
	out := make([]int64, 0, len(rows))
	for _, a := range rows {
		if _, ok := seen[a.ClientID()]; ok {
			continue
		}
		seen[a.ClientID()] = struct{}{}
		out = append(out, a.ClientID())
	}
	return out, nil
}
