package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trattoria-luca/service-booking/internal/domain/money"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// document mirrors the YAML layout of a catalog file.
type document struct {
	Packages   []packageDoc `yaml:"packages"`
	VenueAreas []Area       `yaml:"venue_areas"`
}

type packageDoc struct {
	ID                 string      `yaml:"id"`
	Name               string      `yaml:"name"`
	Description        string      `yaml:"description"`
	Kind               Kind        `yaml:"kind"`
	Price              money.Cents `yaml:"price"`
	PriceFrom          bool        `yaml:"price_from"`
	MinSpend           money.Cents `yaml:"min_spend"`
	MinGuests          int         `yaml:"min_guests"`
	MaxGuests          int         `yaml:"max_guests"`
	Courses            int         `yaml:"courses"`
	Includes           []string    `yaml:"includes"`
	Category           string      `yaml:"category"`
	AvailableFrom      string      `yaml:"available_from"`
	RequiredSelections int         `yaml:"required_selections"`
	Menu               *struct {
		Sections []MenuSection `yaml:"sections"`
	} `yaml:"menu"`
	SpecialOrders *struct {
		Categories []categoryDoc `yaml:"categories"`
	} `yaml:"special_orders"`
}

type categoryDoc struct {
	Name        string   `yaml:"name"`
	ItemType    ItemType `yaml:"item_type"`
	Description string   `yaml:"description"`
	Items       []struct {
		SKU         string      `yaml:"sku"`
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Size        Size        `yaml:"size"`
		Price       money.Cents `yaml:"price"`
		Servings    int         `yaml:"servings"`
	} `yaml:"items"`
}

// Store is the read-only catalog. It is safe for concurrent use once loaded.
type Store struct {
	packages []Package
	byID     map[string]int
	catalogs map[string]Catalog
	skus     map[string]SpecialOrderItem
	menu     map[string]map[string]bool
	areas    []Area
	areaByID map[string]Area
}

// Default returns the catalog compiled into the binary.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and checks a YAML catalog.
func Load(r io.Reader) (*Store, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	s := &Store{
		byID:     make(map[string]int, len(doc.Packages)),
		catalogs: make(map[string]Catalog, len(doc.Packages)),
		skus:     make(map[string]SpecialOrderItem),
		menu:     make(map[string]map[string]bool),
		areaByID: make(map[string]Area, len(doc.VenueAreas)),
	}

	for _, pd := range doc.Packages {
		if err := s.addPackage(pd); err != nil {
			return nil, err
		}
	}
	if len(s.packages) == 0 {
		return nil, fmt.Errorf("catalog has no packages")
	}

	for _, a := range doc.VenueAreas {
		if a.ID == "" {
			return nil, fmt.Errorf("venue area %q has no id", a.Name)
		}
		if _, dup := s.areaByID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate venue area id %q", a.ID)
		}
		s.areaByID[a.ID] = a
		s.areas = append(s.areas, a)
	}

	return s, nil
}

func (s *Store) addPackage(pd packageDoc) error {
	if pd.ID == "" {
		return fmt.Errorf("package %q has no id", pd.Name)
	}
	if _, dup := s.byID[pd.ID]; dup {
		return fmt.Errorf("duplicate package id %q", pd.ID)
	}
	if !pd.Kind.IsValid() {
		return fmt.Errorf("package %s: invalid kind %q", pd.ID, pd.Kind)
	}

	pkg := Package{
		ID:                 pd.ID,
		Name:               pd.Name,
		Description:        pd.Description,
		Kind:               pd.Kind,
		Price:              pd.Price,
		PriceFrom:          pd.PriceFrom,
		MinSpend:           pd.MinSpend,
		MinGuests:          pd.MinGuests,
		MaxGuests:          pd.MaxGuests,
		Courses:            pd.Courses,
		Includes:           pd.Includes,
		Category:           pd.Category,
		RequiredSelections: pd.RequiredSelections,
	}
	if pd.AvailableFrom != "" {
		d, err := ParseDate(pd.AvailableFrom)
		if err != nil {
			return fmt.Errorf("package %s: %w", pd.ID, err)
		}
		pkg.AvailableFrom = &d
	}

	switch pkg.Kind {
	case KindDining:
		if pkg.RequiredSelections < 1 {
			return fmt.Errorf("package %s: required_selections must be at least 1", pd.ID)
		}
		if pd.Menu == nil {
			return fmt.Errorf("package %s: dining package has no menu", pd.ID)
		}
		names := make(map[string]bool)
		for _, sec := range pd.Menu.Sections {
			for _, item := range sec.Items {
				names[item.Name] = true
			}
		}
		if len(names) < pkg.RequiredSelections {
			return fmt.Errorf("package %s: menu offers %d items but %d are required",
				pd.ID, len(names), pkg.RequiredSelections)
		}
		s.menu[pkg.ID] = names
		s.catalogs[pkg.ID] = Catalog{Menu: &MenuCatalog{PackageID: pkg.ID, Sections: pd.Menu.Sections}}

	case KindSpecialOrder:
		if pd.SpecialOrders == nil {
			return fmt.Errorf("package %s: special-order package has no items", pd.ID)
		}
		soc := &SpecialOrderCatalog{PackageID: pkg.ID}
		for _, cd := range pd.SpecialOrders.Categories {
			cat, err := s.addCategory(pkg.ID, cd)
			if err != nil {
				return err
			}
			soc.Categories = append(soc.Categories, cat)
		}
		s.catalogs[pkg.ID] = Catalog{SpecialOrder: soc}
	}

	s.byID[pkg.ID] = len(s.packages)
	s.packages = append(s.packages, pkg)
	return nil
}

func (s *Store) addCategory(packageID string, cd categoryDoc) (SpecialOrderCategory, error) {
	if !cd.ItemType.IsValid() {
		return SpecialOrderCategory{}, fmt.Errorf("package %s: unknown item type %q", packageID, cd.ItemType)
	}
	cat := SpecialOrderCategory{Name: cd.Name, ItemType: cd.ItemType, Description: cd.Description}
	for _, it := range cd.Items {
		if it.SKU == "" {
			return cat, fmt.Errorf("package %s: item %q has no sku", packageID, it.Name)
		}
		if _, dup := s.skus[it.SKU]; dup {
			return cat, fmt.Errorf("duplicate sku %q", it.SKU)
		}
		if !it.Size.IsValid() {
			return cat, fmt.Errorf("sku %s: unknown size %q", it.SKU, it.Size)
		}
		if it.Price <= 0 {
			return cat, fmt.Errorf("sku %s: price must be positive", it.SKU)
		}
		item := SpecialOrderItem{
			SKU:         it.SKU,
			Name:        it.Name,
			Description: it.Description,
			ItemType:    cd.ItemType,
			Size:        it.Size,
			Price:       it.Price,
			Servings:    it.Servings,
		}
		s.skus[it.SKU] = item
		cat.Items = append(cat.Items, item)
	}
	return cat, nil
}

// ListPackages returns every package in catalog order.
func (s *Store) ListPackages() []Package {
	out := make([]Package, len(s.packages))
	copy(out, s.packages)
	return out
}

// Package looks up a package by id.
func (s *Store) Package(id string) (Package, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Package{}, false
	}
	return s.packages[i], true
}

// CatalogFor returns the menu or special-order catalog of a package.
func (s *Store) CatalogFor(id string) (Catalog, bool) {
	c, ok := s.catalogs[id]
	return c, ok
}

// SpecialOrderItem looks up a special-order SKU.
func (s *Store) SpecialOrderItem(sku string) (SpecialOrderItem, bool) {
	item, ok := s.skus[sku]
	return item, ok
}

// HasMenuItem reports whether a dining package offers the named dish.
func (s *Store) HasMenuItem(packageID, name string) bool {
	return s.menu[packageID][name]
}

// Areas returns the selectable rental-venue areas.
func (s *Store) Areas() []Area {
	out := make([]Area, len(s.areas))
	copy(out, s.areas)
	return out
}

// Area looks up a rental-venue area by id.
func (s *Store) Area(id string) (Area, bool) {
	a, ok := s.areaByID[id]
	return a, ok
}
