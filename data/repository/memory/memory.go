package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sebastiangueler-commits/cARTE/data/repository"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/shopspring/decimal"
)

type txKey struct{}

type state struct {
	users      map[int64]model.User
	portfolios map[int64]model.Portfolio
	assets     map[int64]model.Asset
	prices     []model.PricePoint
	activity   []model.Activity
	seq        int64
}

func (s state) clone() state {
	return state{
		users:      maps.Clone(s.users),
		portfolios: maps.Clone(s.portfolios),
		assets:     maps.Clone(s.assets),
		prices:     slices.Clone(s.prices),
		activity:   slices.Clone(s.activity),
		seq:        s.seq,
	}
}

// Store keeps users, portfolios and assets in process memory.
// A transaction holds tx for its whole run, so writers outside it wait and
// the snapshot restored on error never drops their changes.
type Store struct {
	tx  sync.Mutex
	mu  sync.RWMutex
	st  state
	now func() time.Time
}

func New() *Store {
	return &Store{
		st: state{
			users:      make(map[int64]model.User),
			portfolios: make(map[int64]model.Portfolio),
			assets:     make(map[int64]model.Asset),
		},
		now: time.Now,
	}
}

func (s *Store) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return tFunc(ctx)
	}

	s.tx.Lock()
	defer s.tx.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := tFunc(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// lock takes the write lock. Outside a transaction it also waits for a running one to finish.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}

	s.tx.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.tx.Unlock()
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

func (s *Store) InsertUser(ctx context.Context, user model.User) (model.User, error) {
	defer s.lock(ctx)()

	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, repository.ErrAlreadyExists
		}
	}

	now := s.now()
	user.ID = s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	s.st.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.st.users[userID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUsers(_ context.Context, search string, limit, offset int) ([]model.UserOverview, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)
	matched := make([]model.UserOverview, 0, len(s.st.users))
	for _, u := range s.st.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.FirstName), search) &&
			!strings.Contains(strings.ToLower(u.LastName), search) {
			continue
		}
		overview := model.UserOverview{User: u}
		for _, p := range s.st.portfolios {
			if p.UserID != u.ID {
				continue
			}
			overview.PortfolioCount++
			for _, a := range s.st.assets {
				if a.PortfolioID == p.ID {
					overview.AssetCount++
				}
			}
		}
		matched = append(matched, overview)
	}

	slices.SortFunc(matched, func(a, b model.UserOverview) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	total := len(matched)
	if offset >= total {
		return []model.UserOverview{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, userID int64, role model.Role) (model.User, error) {
	defer s.lock(ctx)()

	u, ok := s.st.users[userID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = s.now()
	s.st.users[userID] = u
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	if _, ok := s.st.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.st.users, userID)
	for id, p := range s.st.portfolios {
		if p.UserID == userID {
			s.deletePortfolioLocked(id)
		}
	}
	s.st.activity = slices.DeleteFunc(s.st.activity, func(a model.Activity) bool { return a.UserID == userID })
	return nil
}

func (s *Store) InsertPortfolio(ctx context.Context, portfolio model.Portfolio) (model.Portfolio, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.users[portfolio.UserID]; !ok {
		return model.Portfolio{}, repository.ErrNotFound
	}
	now := s.now()
	portfolio.ID = s.nextID()
	portfolio.CreatedAt, portfolio.UpdatedAt = now, now
	s.st.portfolios[portfolio.ID] = portfolio
	return portfolio, nil
}

func (s *Store) GetPortfolio(_ context.Context, portfolioID int64) (model.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.st.portfolios[portfolioID]
	if !ok {
		return model.Portfolio{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetPortfoliosByUserID(_ context.Context, userID int64) ([]model.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolios := make([]model.Portfolio, 0)
	for _, p := range s.st.portfolios {
		if p.UserID == userID {
			portfolios = append(portfolios, p)
		}
	}
	slices.SortFunc(portfolios, func(a, b model.Portfolio) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return portfolios, nil
}

func (s *Store) UpdatePortfolio(ctx context.Context, portfolioID int64, upd model.PortfolioUpdate) (model.Portfolio, error) {
	defer s.lock(ctx)()

	p, ok := s.st.portfolios[portfolioID]
	if !ok {
		return model.Portfolio{}, repository.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	p.UpdatedAt = s.now()
	s.st.portfolios[portfolioID] = p
	return p, nil
}

func (s *Store) DeletePortfolio(ctx context.Context, portfolioID int64) error {
	defer s.lock(ctx)()

	if _, ok := s.st.portfolios[portfolioID]; !ok {
		return repository.ErrNotFound
	}
	s.deletePortfolioLocked(portfolioID)
	return nil
}

func (s *Store) deletePortfolioLocked(portfolioID int64) {
	delete(s.st.portfolios, portfolioID)
	for id, a := range s.st.assets {
		if a.PortfolioID == portfolioID {
			s.deleteAssetLocked(id)
		}
	}
}

func (s *Store) InsertAsset(ctx context.Context, asset model.Asset) (model.Asset, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.portfolios[asset.PortfolioID]; !ok {
		return model.Asset{}, repository.ErrNotFound
	}
	now := s.now()
	asset.ID = s.nextID()
	asset.CreatedAt, asset.UpdatedAt = now, now
	if asset.PurchaseDate.IsZero() {
		asset.PurchaseDate = now.Truncate(24 * time.Hour)
	}
	s.st.assets[asset.ID] = asset
	return asset, nil
}

func (s *Store) GetAsset(_ context.Context, assetID int64) (model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.st.assets[assetID]
	if !ok {
		return model.Asset{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *Store) filterAssets(keep func(model.Asset) bool) []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]model.Asset, 0)
	for _, a := range s.st.assets {
		if keep(a) {
			assets = append(assets, a)
		}
	}
	slices.SortFunc(assets, func(a, b model.Asset) int {
		if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return assets
}

func (s *Store) GetAssetsByPortfolioID(_ context.Context, portfolioID int64) ([]model.Asset, error) {
	return s.filterAssets(func(a model.Asset) bool { return a.PortfolioID == portfolioID }), nil
}

func (s *Store) GetAssetsByUserID(_ context.Context, userID int64) ([]model.Asset, error) {
	s.mu.RLock()
	owned := make(map[int64]struct{})
	for _, p := range s.st.portfolios {
		if p.UserID == userID {
			owned[p.ID] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return s.filterAssets(func(a model.Asset) bool {
		_, ok := owned[a.PortfolioID]
		return ok
	}), nil
}

func (s *Store) GetAllAssets(_ context.Context) ([]model.Asset, error) {
	return s.filterAssets(func(model.Asset) bool { return true }), nil
}

func (s *Store) UpdateAsset(ctx context.Context, assetID int64, upd model.AssetUpdate) (model.Asset, error) {
	defer s.lock(ctx)()

	a, ok := s.st.assets[assetID]
	if !ok {
		return model.Asset{}, repository.ErrNotFound
	}
	if upd.Symbol != nil {
		a.Symbol = *upd.Symbol
	}
	if upd.ISIN != nil {
		a.ISIN = *upd.ISIN
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Quantity != nil {
		a.Quantity = *upd.Quantity
	}
	if upd.PurchasePrice != nil {
		a.PurchasePrice = *upd.PurchasePrice
	}
	if upd.PurchaseDate != nil {
		a.PurchaseDate = *upd.PurchaseDate
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	a.UpdatedAt = s.now()
	s.st.assets[assetID] = a
	return a, nil
}

func (s *Store) UpdateAssetCurrentPrice(ctx context.Context, assetID int64, price decimal.Decimal) error {
	defer s.lock(ctx)()

	a, ok := s.st.assets[assetID]
	if !ok {
		return repository.ErrNotFound
	}
	a.CurrentPrice = decimal.NewNullDecimal(price)
	a.UpdatedAt = s.now()
	s.st.assets[assetID] = a
	return nil
}

func (s *Store) DeleteAsset(ctx context.Context, assetID int64) error {
	defer s.lock(ctx)()

	if _, ok := s.st.assets[assetID]; !ok {
		return repository.ErrNotFound
	}
	s.deleteAssetLocked(assetID)
	return nil
}

func (s *Store) deleteAssetLocked(assetID int64) {
	delete(s.st.assets, assetID)
	s.st.prices = slices.DeleteFunc(s.st.prices, func(p model.PricePoint) bool { return p.AssetID == assetID })
}

func (s *Store) InsertAssetPrice(ctx context.Context, point model.PricePoint) error {
	defer s.lock(ctx)()

	if _, ok := s.st.assets[point.AssetID]; !ok {
		return repository.ErrNotFound
	}
	if point.RecordedAt.IsZero() {
		point.RecordedAt = s.now()
	}
	s.st.prices = append(s.st.prices, point)
	return nil
}

func (s *Store) GetAssetPriceHistory(_ context.Context, assetID int64, since time.Time) ([]model.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make([]model.PricePoint, 0)
	for _, p := range s.st.prices {
		if p.AssetID == assetID && !p.RecordedAt.Before(since) {
			points = append(points, p)
		}
	}
	slices.SortStableFunc(points, func(a, b model.PricePoint) int { return a.RecordedAt.Compare(b.RecordedAt) })
	return points, nil
}

func (s *Store) InsertActivity(ctx context.Context, activity model.Activity) error {
	defer s.lock(ctx)()

	activity.ID = s.nextID()
	activity.CreatedAt = s.now()
	s.st.activity = append(s.st.activity, activity)
	return nil
}

func (s *Store) GetActivity(_ context.Context, userID int64, actions []model.ActivityAction, limit int) ([]model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Activity, 0)
	for i := len(s.st.activity) - 1; i >= 0 && len(result) < limit; i-- {
		a := s.st.activity[i]
		if a.UserID != userID {
			continue
		}
		if len(actions) > 0 && !slices.Contains(actions, a.Action) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}
