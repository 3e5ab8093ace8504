package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"unionhub/internal/access"
	id "unionhub/pkg/domain"
)

var tokenFlags struct {
	member    string
	role      string
	level     string
	entity    string
	portfolio string
	ttl       time.Duration
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.member, "member", "", "member ID the token acts for (required)")
	f.StringVar(&tokenFlags.role, "role", string(access.RoleMember), "super_admin, state_admin, district_admin, tehsil_admin or member")
	f.StringVar(&tokenFlags.level, "level", string(id.LevelState), "tehsil, district or state")
	f.StringVar(&tokenFlags.entity, "entity", "", "tehsil or district ID the role is scoped to")
	f.StringVar(&tokenFlags.portfolio, "portfolio", "", "active portfolio, e.g. election_commission")
	f.DurationVar(&tokenFlags.ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("member")
	rootCmd.AddCommand(tokenCmd)
}

// tokenCmd mints bearer tokens for operators and local testing; member
// authentication itself happens upstream.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token for an acting context",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		actor, err := actorFromFlags()
		if err != nil {
			return err
		}
		token, err := access.NewTokenService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience).
			Issue(actor, tokenFlags.ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func actorFromFlags() (access.ActingContext, error) {
	memberID, err := id.ParseMemberID(tokenFlags.member)
	if err != nil {
		return access.ActingContext{}, err
	}
	level, err := id.ParseLevel(tokenFlags.level)
	if err != nil {
		return access.ActingContext{}, err
	}
	role := access.Role(tokenFlags.role)
	switch role {
	case access.RoleSuperAdmin, access.RoleStateAdmin, access.RoleDistrictAdmin, access.RoleTehsilAdmin, access.RoleMember:
	default:
		return access.ActingContext{}, fmt.Errorf("unknown role %q", tokenFlags.role)
	}
	actor := access.ActingContext{
		MemberID:        memberID,
		Role:            role,
		Level:           level,
		ActivePortfolio: access.Portfolio(tokenFlags.portfolio),
	}
	if tokenFlags.entity != "" {
		if actor.EntityID, err = id.ParseEntityID(tokenFlags.entity); err != nil {
			return access.ActingContext{}, err
		}
	}
	return actor, nil
}
