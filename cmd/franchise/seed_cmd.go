package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence"
	"github.com/creditpath/franchise-sdk/modules/franchise/services"
	"github.com/creditpath/franchise-sdk/pkg/composables"
	"github.com/creditpath/franchise-sdk/pkg/configuration"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

// newSeedCmd populates a development database with a small franchise
// tree: one headquarters, one region, two branches, a handful of staff,
// clients and completed settlements.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a development database",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := openPool(ctx, conf)
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx = composables.WithPool(ctx, pool)

			orgRepo := persistence.NewOrganizationRepository()
			membershipRepo := persistence.NewMembershipRepository()
			assignmentRepo := persistence.NewAssignmentRepository()
			staffRepo := persistence.NewStaffRepository()
			clientRepo := persistence.NewClientRepository()

			publisher := eventbus.NewEventPublisher(logger)
			orgSvc := services.NewOrgService(orgRepo, membershipRepo, assignmentRepo, publisher)
			memberSvc := services.NewMembershipService(membershipRepo, orgRepo, staffRepo, publisher)
			permSvc := services.NewPermissionService(membershipRepo, orgRepo, staffRepo)
			assignSvc := services.NewAssignmentService(assignmentRepo, orgRepo, clientRepo, permSvc, publisher)

			var staffIDs []int64
			for _, email := range []string{"owner@hq.test", "manager@west.test", "agent@downtown.test"} {
				var id int64
				if err := pool.QueryRow(ctx, `INSERT INTO staff (email) VALUES ($1) RETURNING id`, email).Scan(&id); err != nil {
					return err
				}
				staffIDs = append(staffIDs, id)
			}

			var clientIDs []int64
			for i := 0; i < 6; i++ {
				var id int64
				if err := pool.QueryRow(ctx, `INSERT INTO clients (status) VALUES ('active') RETURNING id`).Scan(&id); err != nil {
					return err
				}
				clientIDs = append(clientIDs, id)
			}

			hq, err := orgSvc.Create(ctx, services.CreateOrgInput{
				Name: "CreditPath HQ",
				Type: organization.TypeHeadquarters,
				Tier: organization.TierEnterprise,
			})
			if err != nil {
				return err
			}
			west, err := orgSvc.Create(ctx, services.CreateOrgInput{
				Name:                "West Region",
				Type:                organization.TypeRegional,
				ParentID:            ptr(hq.ID()),
				Tier:                organization.TierProfessional,
				RevenueSharePercent: decimal.NewFromInt(15),
			})
			if err != nil {
				return err
			}
			downtown, err := orgSvc.Create(ctx, services.CreateOrgInput{
				Name:                "Downtown Branch",
				Type:                organization.TypeBranch,
				ParentID:            ptr(west.ID()),
				RevenueSharePercent: decimal.NewFromInt(10),
			})
			if err != nil {
				return err
			}
			uptown, err := orgSvc.Create(ctx, services.CreateOrgInput{
				Name:                "Uptown Branch",
				Type:                organization.TypeBranch,
				ParentID:            ptr(west.ID()),
				RevenueSharePercent: decimal.NewFromInt(10),
			})
			if err != nil {
				return err
			}

			memberships := []struct {
				org     uuid.UUID
				staffID int64
				role    membership.Role
			}{
				{hq.ID(), staffIDs[0], membership.RoleOwner},
				{west.ID(), staffIDs[1], membership.RoleManager},
				{downtown.ID(), staffIDs[2], membership.RoleStaff},
			}
			for _, m := range memberships {
				if _, err := memberSvc.AddMember(ctx, services.AddMemberInput{
					OrgID:     m.org,
					StaffID:   m.staffID,
					Role:      m.role,
					IsPrimary: true,
				}); err != nil {
					return err
				}
			}

			branches := []uuid.UUID{downtown.ID(), uptown.ID()}
			for i, clientID := range clientIDs {
				if _, err := assignSvc.Assign(ctx, clientID, branches[i%len(branches)], &staffIDs[2]); err != nil {
					return err
				}
				if _, err := pool.Exec(
					ctx,
					`INSERT INTO settlements (client_id, settlement_type, amount, status, completed_at)
					 VALUES ($1, 'debt_settlement', $2, 'completed', now())`,
					clientID,
					decimal.NewFromInt(int64(500*(i+1))),
				); err != nil {
					return err
				}
			}

			logger.WithField("organizations", 4).
				WithField("staff", len(staffIDs)).
				WithField("clients", len(clientIDs)).
				Info("seeded development data")
			return nil
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
