package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"restaurant-engine/internal/domain/catalog"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type categoryDoc struct {
	Name        string `yaml:"name"`
	PrepMinutes int    `yaml:"prep_minutes"`
}

type productDoc struct {
	ID       uuid.UUID `yaml:"id"`
	Name     string    `yaml:"name"`
	Category string    `yaml:"category"`
	Price    string    `yaml:"price"`
	Inactive bool      `yaml:"inactive"`
}

type componentDoc struct {
	ProductID uuid.UUID `yaml:"product_id"`
	Quantity  int       `yaml:"quantity"`
}

type comboDoc struct {
	ID         uuid.UUID      `yaml:"id"`
	Name       string         `yaml:"name"`
	Price      string         `yaml:"price"`
	Inactive   bool           `yaml:"inactive"`
	Components []componentDoc `yaml:"components"`
}

type tableDoc struct {
	ID       uuid.UUID `yaml:"id"`
	Number   int       `yaml:"number"`
	Capacity int       `yaml:"capacity"`
	Location string    `yaml:"location"`
}

type inventoryDoc struct {
	ProductID        uuid.UUID `yaml:"product_id"`
	OnHand           int       `yaml:"on_hand"`
	ReorderThreshold int       `yaml:"reorder_threshold"`
}

type document struct {
	Categories []categoryDoc  `yaml:"categories"`
	Products   []productDoc   `yaml:"products"`
	Combos     []comboDoc     `yaml:"combos"`
	Tables     []tableDoc     `yaml:"tables"`
	Inventory  []inventoryDoc `yaml:"inventory"`
}

// Static is a read-only catalog loaded once at startup. It also carries the
// table layout and opening inventory used to seed an empty store.
type Static struct {
	products  map[uuid.UUID]catalog.Product
	combos    map[uuid.UUID]catalog.Combo
	tables    []tableDoc
	inventory []stock.InventoryRecord
}

func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read catalog %s", path)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Wrap(err, "decode catalog")
	}

	minutes := make(map[string]int, len(doc.Categories))
	for _, c := range doc.Categories {
		minutes[c.Name] = c.PrepMinutes
	}

	s := &Static{
		products: make(map[uuid.UUID]catalog.Product, len(doc.Products)),
		combos:   make(map[uuid.UUID]catalog.Combo, len(doc.Combos)),
		tables:   doc.Tables,
	}
	for _, p := range doc.Products {
		price, err := pricing.ParseMoney(p.Price)
		if err != nil {
			return nil, errs.Wrapf(err, "product %s price", p.Name)
		}
		m, ok := minutes[p.Category]
		if !ok {
			return nil, errs.New(fmt.Sprintf("product %s: unknown category %q", p.Name, p.Category))
		}
		s.products[p.ID] = catalog.Product{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       price,
			PrepMinutes: m,
			Active:      !p.Inactive,
		}
	}
	for _, c := range doc.Combos {
		price, err := pricing.ParseMoney(c.Price)
		if err != nil {
			return nil, errs.Wrapf(err, "combo %s price", c.Name)
		}
		if len(c.Components) == 0 {
			return nil, errs.New(fmt.Sprintf("combo %s has no components", c.Name))
		}
		comps := make([]catalog.ComboComponent, 0, len(c.Components))
		for _, comp := range c.Components {
			if _, ok := s.products[comp.ProductID]; !ok {
				return nil, errs.New(fmt.Sprintf("combo %s: unknown product %s", c.Name, comp.ProductID))
			}
			qty := comp.Quantity
			if qty <= 0 {
				qty = 1
			}
			comps = append(comps, catalog.ComboComponent{ProductID: comp.ProductID, Quantity: qty})
		}
		s.combos[c.ID] = catalog.Combo{
			ID:         c.ID,
			Name:       c.Name,
			Price:      price,
			Components: comps,
			Active:     !c.Inactive,
		}
	}
	for _, inv := range doc.Inventory {
		if _, ok := s.products[inv.ProductID]; !ok {
			return nil, errs.New(fmt.Sprintf("inventory: unknown product %s", inv.ProductID))
		}
		s.inventory = append(s.inventory, stock.InventoryRecord{
			ProductID:        inv.ProductID,
			OnHand:           inv.OnHand,
			ReorderThreshold: inv.ReorderThreshold,
		})
	}
	return s, nil
}

func (s *Static) Product(_ context.Context, id uuid.UUID) (catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

func (s *Static) Combo(_ context.Context, id uuid.UUID) (catalog.Combo, error) {
	c, ok := s.combos[id]
	if !ok {
		return catalog.Combo{}, catalog.ErrComboNotFound
	}
	return c, nil
}

// Tables builds the seeded floor plan, all Free as of now.
func (s *Static) Tables(now time.Time) ([]*table.Table, error) {
	out := make([]*table.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tb, err := table.NewTable(t.ID, t.Number, t.Capacity, t.Location, now)
		if err != nil {
			return nil, errs.Wrapf(err, "table %d", t.Number)
		}
		out = append(out, tb)
	}
	return out, nil
}

func (s *Static) Inventory() []stock.InventoryRecord {
	out := make([]stock.InventoryRecord, len(s.inventory))
	copy(out, s.inventory)
	return out
}
