package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
)

// Store is an in-memory implementation of the repository interfaces. Do runs
// against a snapshot-rollback transaction: a returned error restores the
// pre-transaction state, matching the all-or-nothing contract of the real
// store.
type Store struct {
	mu sync.Mutex

	nextMissionID int64
	missions      map[int64]*models.MissionInstance
	compound      map[string]*models.CompoundProgress
	rewards       map[string]*models.SpecialReward
	history       []*models.MissionHistoryEntry
	progression   map[string]*models.PlayerProgression

	errs map[string]error
}

func NewStore() *Store {
	return &Store{
		missions:    make(map[int64]*models.MissionInstance),
		compound:    make(map[string]*models.CompoundProgress),
		rewards:     make(map[string]*models.SpecialReward),
		progression: make(map[string]*models.PlayerProgression),
		errs:        make(map[string]error),
	}
}

// FailNext makes the next call of the keyed operation return err, once. Keys
// are "<repo>.<operation>", e.g. "missions.create_all".
func (s *Store) FailNext(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[key] = err
}

func (s *Store) takeErr(key string) error {
	if err, ok := s.errs[key]; ok {
		delete(s.errs, key)
		return err
	}
	return nil
}

// Repos returns repositories for direct use outside a transaction.
func (s *Store) Repos() repositories.Repositories {
	return repositories.Repositories{
		Missions:    &memMissionRepo{s: s, locking: true},
		Rewards:     &memRewardRepo{s: s, locking: true},
		Progression: &memProgressionRepo{s: s, locking: true},
	}
}

// Do implements repositories.UnitOfWork.
func (s *Store) Do(_ context.Context, fn func(r repositories.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(repositories.Repositories{
		Missions:    &memMissionRepo{s: s},
		Rewards:     &memRewardRepo{s: s},
		Progression: &memProgressionRepo{s: s},
	})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	nextMissionID int64
	missions      map[int64]*models.MissionInstance
	compound      map[string]*models.CompoundProgress
	rewards       map[string]*models.SpecialReward
	history       []*models.MissionHistoryEntry
	progression   map[string]*models.PlayerProgression
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		nextMissionID: s.nextMissionID,
		missions:      make(map[int64]*models.MissionInstance, len(s.missions)),
		compound:      make(map[string]*models.CompoundProgress, len(s.compound)),
		rewards:       make(map[string]*models.SpecialReward, len(s.rewards)),
		history:       append([]*models.MissionHistoryEntry(nil), s.history...),
		progression:   make(map[string]*models.PlayerProgression, len(s.progression)),
	}
	for id, m := range s.missions {
		snap.missions[id] = cloneInstance(m)
	}
	for id, c := range s.compound {
		snap.compound[id] = cloneCompound(c)
	}
	for id, r := range s.rewards {
		snap.rewards[id] = cloneReward(r)
	}
	for id, p := range s.progression {
		snap.progression[id] = cloneProgression(p)
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.nextMissionID = snap.nextMissionID
	s.missions = snap.missions
	s.compound = snap.compound
	s.rewards = snap.rewards
	s.history = snap.history
	s.progression = snap.progression
}

func cloneInstance(m *models.MissionInstance) *models.MissionInstance {
	c := *m
	if m.CompletedAt != nil {
		ts := *m.CompletedAt
		c.CompletedAt = &ts
	}
	if m.ClaimedAt != nil {
		ts := *m.ClaimedAt
		c.ClaimedAt = &ts
	}
	return &c
}

func cloneCompound(cp *models.CompoundProgress) *models.CompoundProgress {
	c := *cp
	return &c
}

func cloneReward(r *models.SpecialReward) *models.SpecialReward {
	c := *r
	return &c
}

func cloneProgression(p *models.PlayerProgression) *models.PlayerProgression {
	c := *p
	c.Achievements = append([]string(nil), p.Achievements...)
	c.OwnedRewardIDs = append([]string(nil), p.OwnedRewardIDs...)
	c.ActionCounters = make(map[string]int64, len(p.ActionCounters))
	for k, v := range p.ActionCounters {
		c.ActionCounters[k] = v
	}
	return &c
}

type memMissionRepo struct {
	s       *Store
	locking bool
}

func (r *memMissionRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memMissionRepo) GetByID(_ context.Context, playerID string, id int64) (*models.MissionInstance, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.get"); err != nil {
		return nil, err
	}
	m, ok := r.s.missions[id]
	if !ok || m.PlayerID != playerID {
		return nil, nil
	}
	return cloneInstance(m), nil
}

func (r *memMissionRepo) GetActive(_ context.Context, playerID string, now time.Time) ([]*models.MissionInstance, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.get_active"); err != nil {
		return nil, err
	}
	var out []*models.MissionInstance
	for _, m := range r.s.missions {
		if m.PlayerID == playerID && m.ExpiresAt.After(now) {
			out = append(out, cloneInstance(m))
		}
	}
	// Same order as the bun repository: rarest first, then insertion order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rarity != out[j].Rarity {
			return out[i].Rarity > out[j].Rarity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memMissionRepo) Create(_ context.Context, instance *models.MissionInstance) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.create"); err != nil {
		return err
	}
	r.s.nextMissionID++
	instance.ID = r.s.nextMissionID
	r.s.missions[instance.ID] = cloneInstance(instance)
	return nil
}

func (r *memMissionRepo) CreateAll(ctx context.Context, instances []*models.MissionInstance) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.create_all"); err != nil {
		return err
	}
	for _, instance := range instances {
		r.s.nextMissionID++
		instance.ID = r.s.nextMissionID
		r.s.missions[instance.ID] = cloneInstance(instance)
	}
	return nil
}

func (r *memMissionRepo) Update(_ context.Context, instance *models.MissionInstance) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.update"); err != nil {
		return err
	}
	existing, ok := r.s.missions[instance.ID]
	if !ok || existing.PlayerID != instance.PlayerID {
		return &repositories.NotFoundError{Entity: "mission_instance", ID: instance.ID}
	}
	r.s.missions[instance.ID] = cloneInstance(instance)
	return nil
}

func (r *memMissionRepo) DeleteExpiredUnclaimed(_ context.Context, playerID string, now time.Time) (int, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.delete_expired"); err != nil {
		return 0, err
	}
	deleted := 0
	for id, m := range r.s.missions {
		if m.PlayerID == playerID && !m.Claimed && m.ExpiresAt.Before(now) {
			delete(r.s.missions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memMissionRepo) DeleteAll(_ context.Context, playerID string) (int, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.delete_all"); err != nil {
		return 0, err
	}
	deleted := 0
	for id, m := range r.s.missions {
		if m.PlayerID == playerID {
			delete(r.s.missions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memMissionRepo) GetCompound(_ context.Context, playerID string) (*models.CompoundProgress, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.get_compound"); err != nil {
		return nil, err
	}
	cp, ok := r.s.compound[playerID]
	if !ok {
		return nil, nil
	}
	return cloneCompound(cp), nil
}

func (r *memMissionRepo) UpsertCompound(_ context.Context, progress *models.CompoundProgress) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.upsert_compound"); err != nil {
		return err
	}
	r.s.compound[progress.PlayerID] = cloneCompound(progress)
	return nil
}

func (r *memMissionRepo) DeleteCompound(_ context.Context, playerID string) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.delete_compound"); err != nil {
		return err
	}
	delete(r.s.compound, playerID)
	return nil
}

func (r *memMissionRepo) AppendHistory(_ context.Context, entry *models.MissionHistoryEntry) error {
	defer r.lock()()
	if err := r.s.takeErr("missions.append_history"); err != nil {
		return err
	}
	clone := *entry
	clone.ID = int64(len(r.s.history) + 1)
	r.s.history = append(r.s.history, &clone)
	return nil
}

func (r *memMissionRepo) History(_ context.Context, playerID string) ([]*models.MissionHistoryEntry, error) {
	defer r.lock()()
	if err := r.s.takeErr("missions.history"); err != nil {
		return nil, err
	}
	var out []*models.MissionHistoryEntry
	for _, entry := range r.s.history {
		if entry.PlayerID == playerID {
			clone := *entry
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memRewardRepo struct {
	s       *Store
	locking bool
}

func (r *memRewardRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRewardRepo) Create(_ context.Context, reward *models.SpecialReward) error {
	defer r.lock()()
	if err := r.s.takeErr("rewards.create"); err != nil {
		return err
	}
	r.s.rewards[reward.ID] = cloneReward(reward)
	return nil
}

func (r *memRewardRepo) Get(_ context.Context, id string) (*models.SpecialReward, error) {
	defer r.lock()()
	if err := r.s.takeErr("rewards.get"); err != nil {
		return nil, err
	}
	reward, ok := r.s.rewards[id]
	if !ok {
		return nil, nil
	}
	return cloneReward(reward), nil
}

func (r *memRewardRepo) GetByPlayer(_ context.Context, playerID string) ([]*models.SpecialReward, error) {
	defer r.lock()()
	if err := r.s.takeErr("rewards.get_by_player"); err != nil {
		return nil, err
	}
	var out []*models.SpecialReward
	for _, reward := range r.s.rewards {
		if reward.PlayerID == playerID {
			out = append(out, cloneReward(reward))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MintedAt.Before(out[j].MintedAt) })
	return out, nil
}

type memProgressionRepo struct {
	s       *Store
	locking bool
}

func (r *memProgressionRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memProgressionRepo) GetOrCreate(_ context.Context, playerID string) (*models.PlayerProgression, error) {
	defer r.lock()()
	if err := r.s.takeErr("progression.get_or_create"); err != nil {
		return nil, err
	}
	if p, ok := r.s.progression[playerID]; ok {
		return cloneProgression(p), nil
	}
	p := models.NewPlayerProgression(playerID)
	p.ID = int64(len(r.s.progression) + 1)
	r.s.progression[playerID] = cloneProgression(p)
	return p, nil
}

func (r *memProgressionRepo) Update(_ context.Context, progression *models.PlayerProgression) error {
	defer r.lock()()
	if err := r.s.takeErr("progression.update"); err != nil {
		return err
	}
	if _, ok := r.s.progression[progression.PlayerID]; !ok {
		return &repositories.NotFoundError{Entity: "player_progression", ID: progression.PlayerID}
	}
	r.s.progression[progression.PlayerID] = cloneProgression(progression)
	return nil
}
