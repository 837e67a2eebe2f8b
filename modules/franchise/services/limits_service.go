package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
)

// LimitsService compares current member/client counts against the
// organization's subscription quotas.
type LimitsService struct {
	orgs        organization.Repository
	memberships membership.Repository
	assignments assignment.Repository
}

func NewLimitsService(
	orgs organization.Repository,
	memberships membership.Repository,
	assignments assignment.Repository,
) *LimitsService {
	return &LimitsService{
		orgs:        orgs,
		memberships: memberships,
		assignments: assignments,
	}
}

type QuotaUsage struct {
	Current      int64
	Max          int
	Remaining    int64
	Unlimited    bool
	AtLimit      bool
	Warning      bool
	UsagePercent float64
}

type LimitsReport struct {
	Tier          organization.Tier
	Users         QuotaUsage
	Clients       QuotaUsage
	CanAddUsers   bool
	CanAddClients bool
}

func (s *LimitsService) Check(ctx context.Context, orgID uuid.UUID) (*LimitsReport, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}

	memberCount, err := s.memberships.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}
	clientCount, err := s.assignments.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}

	report := &LimitsReport{
		Tier:    org.Tier(),
		Users:   quotaUsage(memberCount, org.MaxUsers()),
		Clients: quotaUsage(clientCount, org.MaxClients()),
	}
	report.CanAddUsers = !report.Users.AtLimit
	report.CanAddClients = !report.Clients.AtLimit
	return report, nil
}

// quotaUsage computes one quota row. max <= 0 is the unlimited sentinel:
// never warns, never hits the limit, usage reads 0%.
func quotaUsage(current int64, max int) QuotaUsage {
	if max <= 0 {
		return QuotaUsage{
			Current:   current,
			Max:       0,
			Remaining: -1,
			Unlimited: true,
		}
	}

	remaining := int64(max) - current
	if remaining < 0 {
		remaining = 0
	}
	percent := float64(current) / float64(max) * 100
	return QuotaUsage{
		Current:      current,
		Max:          max,
		Remaining:    remaining,
		AtLimit:      current >= int64(max),
		Warning:      float64(current) >= 0.8*float64(max),
		UsagePercent: math.Round(percent*10) / 10,
	}
}
