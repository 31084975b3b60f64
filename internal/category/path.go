package category

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// Levels holds one string per tree level, level1 first. Empty entries are skipped.
type Levels [MaxLevel]string

// MarshalJSON emits {"level1": ..., "level6": ...} without empty levels.
func (l Levels) MarshalJSON() ([]byte, error) {
	m := map[string]string{}
	for i, v := range l {
		if v != "" {
			m[levelKey(i)] = v
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads {"level1": ..., "level6": ...}; unknown keys are ignored.
func (l *Levels) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = Levels{}
	for i := range l {
		if s, ok := m[levelKey(i)].(string); ok {
			l[i] = s
		}
	}
	return nil
}

// Empty reports whether no level is set.
func (l Levels) Empty() bool { return l == Levels{} }

// Path is the resolved id chain of a product's category, level1 first.
type Path [MaxLevel]int64

// Deepest returns the deepest id among level6..level2, or 0. A bare
// level1 path does not identify a product category.
func (p Path) Deepest() int64 {
	for i := MaxLevel - 1; i >= 1; i-- {
		if p[i] > 0 {
			return p[i]
		}
	}
	return 0
}

// IDs returns the non-zero ids of the path in level order.
func (p Path) IDs() []int64 {
	var ids []int64
	for _, id := range p {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Empty reports whether no level is set.
func (p Path) Empty() bool { return p == Path{} }

// MarshalJSON always emits level1 and level2; deeper levels only when set.
func (p Path) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range p {
		if i >= 2 && id == 0 {
			continue
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", levelKey(i), id)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts numeric or numeric-string level values.
func (p *Path) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = Path{}
	for i := range p {
		raw, ok := m[levelKey(i)]
		if !ok {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", levelKey(i), err)
		}
		p[i] = id
	}
	return nil
}

func parseID(raw json.RawMessage) (int64, error) {
	s := string(bytes.Trim(raw, `"`))
	if s == "" || s == "null" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func levelKey(i int) string {
	return "level" + strconv.Itoa(i+1)
}

type pathItem struct {
	name string
	url  string
}

// CheckPath reports whether path is a strict parent chain: every id exists
// and each id after the first is a child of its predecessor.
func (s *Service) CheckPath(ctx context.Context, path []int64) bool {
	if len(path) == 0 {
		return false
	}
	rows, err := s.store.ListByIDs(ctx, path, ListFilter{})
	if err != nil {
		s.logger.Warn().Err(err).Ints64("path", path).Msg("check path lookup failed")
		return false
	}
	if len(rows) != len(path) {
		return false
	}

	byID := make(map[int64]Category, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	for i := len(path) - 1; i >= 0; i-- {
		c, ok := byID[path[i]]
		if !ok || (i > 0 && c.ParentID != path[i-1]) {
			return false
		}
	}
	return true
}

// AddPath finds or creates every non-empty level of names, in one
// transaction. Existing categories are matched by name and level; a match
// under a different parent is a Conflict and rolls the whole path back.
func (s *Service) AddPath(ctx context.Context, names, urls Levels) (Path, error) {
	ctx, span := telemetry.StartSpan(ctx, "category.AddPath")
	defer span.End()

	var way []pathItem
	for i, name := range names {
		if name != "" {
			way = append(way, pathItem{name: name, url: urls[i]})
		}
	}

	var result Path
	if len(way) == 0 {
		return result, nil
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		var parentID int64
		chain := map[int64]bool{}
		for i, item := range way {
			c, err := s.addCategory(ctx, tx, i+1, item, parentID)
			if err != nil {
				return err
			}
			if chain[c.ID] {
				return apperr.Conflict(fmt.Sprintf("category %d is its own ancestor", c.ID))
			}
			chain[c.ID] = true
			result[i] = c.ID
			parentID = c.ID
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return Path{}, err
	}
	return result, nil
}

func (s *Service) addCategory(ctx context.Context, tx Store, level int, item pathItem, parentID int64) (*Category, error) {
	existing, err := tx.FindByNameLevel(ctx, item.name, level)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", item.name, err)
	}

	if existing != nil {
		if existing.ParentID != parentID || existing.Level != level {
			return nil, apperr.Conflict(fmt.Sprintf("Could not create category with name %q", item.name))
		}
		if item.url != "" && existing.URL == "" {
			existing.URL = item.url
			if err := tx.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("backfill category url: %w", err)
			}
		}
		return existing, nil
	}

	c := &Category{
		ParentID: parentID,
		Name:     item.name,
		URL:      item.url,
		Level:    level,
		Status:   StatusActive,
	}
	if err := tx.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category %q: %w", item.name, err)
	}
	s.metrics.RecordCategoryCreated("path")
	return c, nil
}
