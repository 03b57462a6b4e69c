package services

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
	"github.com/lingualink/gamify/missions/interfaces"
)

// ClaimStatus classifies a claim outcome. Rejections are expected results,
// never errors; a double-tap on the claim button is normal traffic.
type ClaimStatus string

const (
	ClaimAccepted       ClaimStatus = "accepted"
	ClaimNotFound       ClaimStatus = "not_found"
	ClaimIncomplete     ClaimStatus = "incomplete"
	ClaimAlreadyClaimed ClaimStatus = "already_claimed"
)

// ClaimResult is the outcome of a claim attempt.
type ClaimResult struct {
	Status        ClaimStatus
	PointsAwarded int
	NewTotal      int64
	SpecialReward *models.SpecialReward
	Unlocked      []catalog.Achievement
}

// escalation biases the minted reward's rarity upward from the mission's
// rarity.
var escalation = map[catalog.Rarity]struct {
	to     catalog.Rarity
	chance float64
}{
	catalog.RarityCommon:    {catalog.RarityUncommon, 0.10},
	catalog.RarityUncommon:  {catalog.RarityRare, 0.30},
	catalog.RarityRare:      {catalog.RarityEpic, 0.40},
	catalog.RarityEpic:      {catalog.RarityLegendary, 0.50},
	catalog.RarityLegendary: {catalog.RarityLegendary, 1.00},
}

// Resolver settles completed missions: pays points through the ledger, rolls
// the special reward and appends the audit trail.
type Resolver struct {
	catalog *catalog.Catalog
	uow     repositories.UnitOfWork
	clock   interfaces.Clock
	rng     interfaces.RandomSource
	ledger  *Ledger
}

func NewResolver(cat *catalog.Catalog, uow repositories.UnitOfWork, clock interfaces.Clock, rng interfaces.RandomSource, ledger *Ledger) *Resolver {
	return &Resolver{
		catalog: cat,
		uow:     uow,
		clock:   clock,
		rng:     rng,
		ledger:  ledger,
	}
}

// Claim settles one mission instance. Preconditions are checked atomically
// with the settlement, so a racing second claim sees the first one's claimed
// flag and is rejected. Expiry is deliberately not a precondition: a
// completed mission stays claimable until the next daily purge removes it.
func (rr *Resolver) Claim(ctx context.Context, playerID string, missionID int64) (ClaimResult, error) {
	now := rr.clock.Now()

	var result ClaimResult
	err := rr.uow.Do(ctx, func(r repositories.Repositories) error {
		inst, err := r.Missions.GetByID(ctx, playerID, missionID)
		if err != nil {
			return fmt.Errorf("failed to load mission: %w", err)
		}
		if inst == nil {
			result = ClaimResult{Status: ClaimNotFound}
			return nil
		}
		if err := inst.CheckInvariants(); err != nil {
			return err
		}
		if inst.Claimed {
			result = ClaimResult{Status: ClaimAlreadyClaimed}
			return nil
		}
		if !inst.Completed {
			result = ClaimResult{Status: ClaimIncomplete}
			return nil
		}

		inst.Claimed = true
		ts := now
		inst.ClaimedAt = &ts
		if err := r.Missions.Update(ctx, inst); err != nil {
			return fmt.Errorf("failed to mark mission claimed: %w", err)
		}

		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		unlocked := rr.ledger.recordClaim(prog, inst.PointsReward)

		var rewardID *string
		var reward *models.SpecialReward
		if inst.SpecialRewardChance > 0 && rr.rng.Uniform() < inst.SpecialRewardChance {
			reward, err = rr.mint(playerID, inst.Rarity, now)
			if err != nil {
				return err
			}
			if err := r.Rewards.Create(ctx, reward); err != nil {
				return fmt.Errorf("failed to mint special reward: %w", err)
			}
			prog.OwnedRewardIDs = append(prog.OwnedRewardIDs, reward.ID)
			rewardID = &reward.ID
		}

		if err := r.Progression.Update(ctx, prog); err != nil {
			return fmt.Errorf("failed to update progression: %w", err)
		}

		entry := &models.MissionHistoryEntry{
			PlayerID:     playerID,
			TemplateID:   inst.TemplateID,
			Action:       inst.Action,
			PointsEarned: inst.PointsReward,
			RewardID:     rewardID,
			CompletedAt:  now,
		}
		if err := r.Missions.AppendHistory(ctx, entry); err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}

		// Claiming the legendary retires its counters.
		if inst.IsCompound() {
			if err := r.Missions.DeleteCompound(ctx, playerID); err != nil {
				return fmt.Errorf("failed to clear compound progress: %w", err)
			}
		}

		result = ClaimResult{
			Status:        ClaimAccepted,
			PointsAwarded: inst.PointsReward,
			NewTotal:      prog.Points,
			SpecialReward: reward,
			Unlocked:      unlocked,
		}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}

	if result.Status == ClaimAccepted && result.SpecialReward != nil {
		slog.Info("Special reward minted",
			slog.String("player_id", playerID),
			slog.String("reward_id", result.SpecialReward.ID),
			slog.String("rarity", result.SpecialReward.Rarity.String()),
			slog.String("reward_type", string(result.SpecialReward.Type)))
	}
	return result, nil
}

// mint rolls the escalation table and materializes a reward. The payload is
// unique per mint, never reused even for the same type and rarity.
func (rr *Resolver) mint(playerID string, missionRarity catalog.Rarity, now time.Time) (*models.SpecialReward, error) {
	rarity := missionRarity
	if esc, ok := escalation[missionRarity]; ok && rr.rng.Uniform() < esc.chance {
		rarity = esc.to
	}

	rewardType := catalog.RewardTypes[rr.rng.IntN(len(catalog.RewardTypes))]
	arch, ok := rr.catalog.Archetype(rewardType)
	if !ok {
		return nil, fmt.Errorf("no archetype for reward type %q", rewardType)
	}

	buf := make([]byte, 8)
	if _, err := crand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate mint entropy: %w", err)
	}
	suffix := hex.EncodeToString(buf)

	return &models.SpecialReward{
		// Snowflakes carry only a timestamp, so two mints in the same
		// millisecond need the random suffix to stay distinct.
		ID:          fmt.Sprintf("%s-%s", snowflake.New(now), suffix),
		PlayerID:    playerID,
		Title:       fmt.Sprintf(arch.TitleFormat, titleCase(rarity.String())),
		Description: arch.Description,
		Icon:        arch.Icon,
		Rarity:      rarity,
		Type:        rewardType,
		Payload:     fmt.Sprintf("%s_%s_%s", rewardType, rarity, suffix),
		MintedAt:    now,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
