package pages

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/lookup"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

var (
	geozoneLookup = []lookup.LookupStrategy{
		lookup.Lookup(1, "id", lookup.Selector("input"), lookup.ByValue(), lookup.PrimaryKey()),
		lookup.Lookup(3, "name"),
		lookup.Lookup(4, "zones"),
	}
	// id as displayed, name link, number of zones
	geozoneRead = []lookup.ReadStrategy{
		lookup.Read(2),
		lookup.Read(3, lookup.Selector("a")),
		lookup.Read(4),
	}
)

// Hidden inputs of a zone row, in document order.
const (
	zoneValueID = iota
	zoneValueCountry
	zoneValueZone
	zoneValueCity
)

const zoneValuesScript = "nodes => Array.prototype.map.call(nodes, e => e.value)"

// GeozonesPage is Admin / Geo Zones.
type GeozonesPage struct {
	listing

	CreateNewButton *elements.Button
}

func NewGeozonesPage(s *ui.Session) *GeozonesPage {
	p := &GeozonesPage{
		listing:         newListing(s, Geozones, "Geo Zones", lookup.Read(1, lookup.Selector("input"), lookup.ByValue())),
		CreateNewButton: elements.NewButton(s, "#main #content .card-action a", "Create New Geo Zone"),
	}
	p.Table.MustSetStrategy(geozoneLookup, geozoneRead)
	return p
}

func (p *GeozonesPage) VerifyPage() error {
	return p.verify(p.HeaderTextShouldMatch, visible(p.Table))
}

func (p *GeozonesPage) CreateNew() (*GeozonesAddFormPage, error) {
	if err := p.CreateNewButton.Click(); err != nil {
		return nil, err
	}
	return NewGeozonesAddFormPage(p.s), nil
}

// EditEntry opens the edit form of geozone. A negative row looks the
// geozone up first.
func (p *GeozonesPage) EditEntry(geozone *models.GeozoneEntity, row int) (*GeozonesEditFormPage, error) {
	if err := p.openRow(geozone, row); err != nil {
		return nil, err
	}
	return NewGeozonesEditFormPage(p.s, geozone.ID), nil
}

// TableEntryDataShouldMatch checks name, number of zones and ID shown
// for geozone.
func (p *GeozonesPage) TableEntryDataShouldMatch(geozone *models.GeozoneEntity) error {
	return p.s.Step("Geozone table data should match", func() error {
		p.s.Log.Info("checking table entry", zap.Stringer("geozone", geozone))
		row, err := p.FindInTable(geozone, false)
		if err != nil {
			return err
		}
		values, err := p.Table.EntryTexts(row, nil)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("geozone %q (ID: %s)", geozone.Name, geozone.ID)
		return p.compare(subject,
			fieldCheck{"name", geozone.Name, values[1]},
			fieldCheck{"number of zones", strconv.Itoa(len(geozone.Zones)), values[2]},
			fieldCheck{"displayed ID", geozone.ID, values[0]},
		)
	})
}

// GeozonesAddFormPage is the Create New Geo Zone form.
type GeozonesAddFormPage struct {
	formPage

	CodeInput *elements.Input
	NameInput *elements.Input
	DescInput *elements.Input

	ZoneCountry      *elements.Select
	ZoneZone         *elements.Select
	ZoneCity         *elements.Input
	ZoneAddButton    *elements.Button
	ZoneDeleteButton *elements.Button
	ZoneTable        *elements.Table
}

func NewGeozonesAddFormPage(s *ui.Session) *GeozonesAddFormPage {
	f := newGeozoneForm(s, "Admin/Geozone/AddForm", "/admin/?app=geo_zones&doc=edit_geo_zone&page=1", "Create New Geo Zone")
	return &f
}

func newGeozoneForm(s *ui.Session, name, path, header string) GeozonesAddFormPage {
	return GeozonesAddFormPage{
		formPage:  newFormPage(s, name, path, header, []string{"Geo Zones", header}),
		CodeInput: elements.NewInput(s, "#content form input[name='code']", "Code"),
		NameInput: elements.NewInput(s, "#content form input[name='name']", "Name"),
		DescInput: elements.NewInput(s, "#content form input[name='description']", "Description"),

		ZoneCountry:      elements.NewSelect(s, "#content form select[name*='country_code']", "Zones/Country"),
		ZoneZone:         elements.NewSelect(s, "#content form select[name*='zone_code']", "Zones/Zones"),
		ZoneCity:         elements.NewInput(s, "#content form input[name='new_zone[city]']", "Zones/City"),
		ZoneAddButton:    elements.NewButton(s, "#content form button[name='add']", "Zones/Add"),
		ZoneDeleteButton: elements.NewButton(s, "#content tbody tr:nth-child({{ at_row }}) td.text-end a", "Delete Zone"),
		ZoneTable:        elements.NewTable(s, "#content form table", "Zones"),
	}
}

func (f *GeozonesAddFormPage) VerifyPage() error {
	return f.verify(visible(f.CancelButton, f.CodeInput, f.NameInput, f.DescInput, f.ZoneAddButton))
}

// CountryOptionNames returns the country dropdown labels without the
// leading "-- Select --" placeholder.
func (f *GeozonesAddFormPage) CountryOptionNames() ([]string, error) {
	names, err := f.ZoneCountry.OptionNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return names, nil
	}
	return names[1:], nil
}

// AddedCountryNames returns the country of every zone row.
func (f *GeozonesAddFormPage) AddedCountryNames() ([]string, error) {
	rows, err := f.ZoneTable.RowsContent([]int{2})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r[0]
	}
	return names, nil
}

// AddedZoneValues returns the hidden form values of every zone row: id,
// country code, zone code and city.
func (f *GeozonesAddFormPage) AddedZoneValues() ([][]string, error) {
	return f.ZoneTable.EvaluateOnNestedElements("input[type='hidden']", zoneValuesScript)
}

// FillFromEntity fills code, name and description and adds every zone.
func (f *GeozonesAddFormPage) FillFromEntity(geozone *models.GeozoneEntity) error {
	return f.s.Step(fmt.Sprintf("Populate %q form with entity data", f.header), func() error {
		if err := f.CodeInput.ClickAndFill(geozone.Code, elements.Plain); err != nil {
			return err
		}
		if err := f.NameInput.ClickAndFill(geozone.Name, elements.Plain); err != nil {
			return err
		}
		if err := f.DescInput.ClickAndFill(geozone.Description, elements.Plain); err != nil {
			return err
		}
		for _, z := range geozone.Zones {
			err := f.s.Step("Adding zone for country "+z.Country, func() error {
				if err := f.ZoneCountry.Click(); err != nil {
					return err
				}
				if err := f.ZoneCountry.SelectByValue(z.Country); err != nil {
					return err
				}
				if err := f.ZoneCity.ClickAndFill(z.City, elements.Plain); err != nil {
					return err
				}
				return f.ZoneAddButton.Click()
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveZones deletes the rows of the given zones, matched by country
// and city. Without zones every row is deleted. Zones not in the table
// are logged.
func (f *GeozonesAddFormPage) RemoveZones(zones ...models.CountryZoneEntity) error {
	return f.s.Step("Removing zones from table", func() error {
		if len(zones) == 0 {
			n, err := f.ZoneTable.CountRows()
			if err != nil {
				return err
			}
			for range n {
				if err := f.ZoneDeleteButton.Click(elements.Q{"at_row": 1}); err != nil {
					return err
				}
			}
			return nil
		}

		for _, z := range zones {
			// rows shift after every removal
			values, err := f.AddedZoneValues()
			if err != nil {
				return err
			}
			idx := findZone(values, z)
			if idx < 0 {
				f.s.Log.Warn("zone to remove is not in the table", zap.Stringer("zone", z))
				f.s.Attach("Zone not found", z.String())
				continue
			}
			if err := f.ZoneDeleteButton.Click(elements.Q{"at_row": idx + 1}); err != nil {
				return err
			}
		}
		return nil
	})
}

func findZone(values [][]string, z models.CountryZoneEntity) int {
	for i, v := range values {
		if len(v) > zoneValueCity && v[zoneValueCountry] == z.Country && v[zoneValueCity] == z.City {
			return i
		}
	}
	return -1
}

// CountryOptionsSizeShouldBe checks the number of countries offered,
// placeholder excluded.
func (f *GeozonesAddFormPage) CountryOptionsSizeShouldBe(size int) error {
	return f.ZoneCountry.ShouldHaveSizeOf(size + 1)
}

// GeozonesEditFormPage is the Edit Geo Zone form.
type GeozonesEditFormPage struct {
	GeozonesAddFormPage
	entityID string

	DeleteButton *elements.Button
}

func NewGeozonesEditFormPage(s *ui.Session, entityID string) *GeozonesEditFormPage {
	path := "/admin/?app=geo_zones&doc=edit_geo_zone&page=1&geo_zone_id=" + entityID
	return &GeozonesEditFormPage{
		GeozonesAddFormPage: newGeozoneForm(s, "Admin/Geozone/EditForm", path, "Edit Geo Zone"),
		entityID:            entityID,
		DeleteButton:        elements.NewButton(s, "#content .card-action button[name='delete']", "Delete"),
	}
}

func (f *GeozonesEditFormPage) EntityID() string { return f.entityID }

func (f *GeozonesEditFormPage) VerifyPage() error {
	return f.verify(visible(f.CancelButton, f.CodeInput, f.NameInput, f.DescInput, f.ZoneAddButton, f.DeleteButton))
}

func (f *GeozonesEditFormPage) Delete(confirm bool) error {
	return deleteWithDialog(f.s, f.DeleteButton, confirm)
}

func (f *GeozonesEditFormPage) URLShouldContainEntityID() error {
	return f.ShouldHaveURL()
}

// FormDataShouldMatch checks the fields and every zone row against
// geozone.
func (f *GeozonesEditFormPage) FormDataShouldMatch(geozone *models.GeozoneEntity) error {
	return f.s.Step("Form data should match the geozone", func() error {
		if err := f.CodeInput.ShouldHaveValue(geozone.Code, elements.Plain); err != nil {
			return err
		}
		if err := f.NameInput.ShouldHaveValue(geozone.Name, elements.Plain); err != nil {
			return err
		}
		if err := f.DescInput.ShouldHaveValue(geozone.Description, elements.Plain); err != nil {
			return err
		}
		if len(geozone.Zones) == 0 {
			return f.ZoneTable.ShouldBeEmpty()
		}

		texts, err := f.ZoneTable.RowsContent([]int{1, 2, 3, 4})
		if err != nil {
			return err
		}
		values, err := f.AddedZoneValues()
		if err != nil {
			return err
		}
		for _, z := range geozone.Zones {
			err := f.s.Step(fmt.Sprintf("Table data of %s should match", z), func() error {
				return zoneRowShouldMatch(texts, values, z)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// zoneRowShouldMatch finds the row of z and checks that its displayed
// texts agree with its form values.
func zoneRowShouldMatch(texts, values [][]string, z models.CountryZoneEntity) error {
	idx := findZone(values, z)
	if idx < 0 || idx >= len(texts) {
		available := make([]string, len(values))
		for i, v := range values {
			available[i] = "   " + strings.Join(v, ", ")
		}
		return fmt.Errorf("zone %s is missing in the table, zones available:\n%s", z, strings.Join(available, "\n"))
	}

	idText, countryText, cityText := texts[idx][0], texts[idx][1], texts[idx][3]
	idValue, cityValue := values[idx][zoneValueID], values[idx][zoneValueCity]
	switch {
	case idValue == "":
		return fmt.Errorf("ID value is empty for zone %s", z)
	case idText == "":
		return fmt.Errorf("displayed ID is empty for zone %s", z)
	case countryText == "":
		return fmt.Errorf("displayed country is empty for zone %s", z)
	case idValue != idText:
		return fmt.Errorf("ID value %q and displayed ID %q differ for zone %s", idValue, idText, z)
	case cityValue != cityText:
		return fmt.Errorf("city value %q and displayed city %q differ for zone %s", cityValue, cityText, z)
	}
	return nil
}
