package pages

import (
	"fmt"
	"strconv"

	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/lookup"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

// Products table: the price column carries a currency sign.
var catalogStrategies = []lookup.LookupStrategy{
	lookup.Lookup(1, "id", lookup.Selector("input"), lookup.ByValue(), lookup.PrimaryKey()),
	lookup.Lookup(4, "name", lookup.Selector("a")),
	lookup.Lookup(5, "sku"),
	lookup.Lookup(6, "price", lookup.Transform("value.substr(1)")),
}

// CatalogPage is Admin / Catalog.
type CatalogPage struct {
	listing

	CreateProductButton *elements.Button
}

func NewCatalogPage(s *ui.Session) *CatalogPage {
	p := &CatalogPage{
		listing:             newListing(s, Catalog, "Products", lookup.Read(1, lookup.Selector("input"), lookup.ByValue())),
		CreateProductButton: elements.NewButton(s, "#content .card-action li:last-child a", "Create New Product"),
	}
	p.Table.MustSetStrategy(catalogStrategies, nil)
	return p
}

func (p *CatalogPage) VerifyPage() error {
	return p.verify(visible(p.CreateProductButton, p.Table))
}

func (p *CatalogPage) OpenCreateProductForm() (*CatalogAddFormPage, error) {
	err := p.s.Step("Opening Create New Product form", func() error {
		return p.CreateProductButton.Click()
	})
	if err != nil {
		return nil, err
	}
	return NewCatalogAddFormPage(p.s), nil
}

// EditEntry opens the edit form of product. A negative row looks the
// product up first.
func (p *CatalogPage) EditEntry(product *models.ProductEntity, row int) (*CatalogEditFormPage, error) {
	if err := p.openRow(product, row); err != nil {
		return nil, err
	}
	return NewCatalogEditFormPage(p.s, product.ID, product.Name), nil
}

// TableEntryDataShouldMatch checks name, SKU and price shown for product.
func (p *CatalogPage) TableEntryDataShouldMatch(product *models.ProductEntity) error {
	return p.s.Step("Product table data should match", func() error {
		row, err := p.FindInTable(product, false)
		if err != nil {
			return err
		}
		if err := p.Table.EntryShouldBeVisible(row); err != nil {
			return err
		}
		values, err := p.Table.EntryTexts(row, nil)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("product %q (ID: %s)", product.Name, product.ID)
		return p.compare(subject,
			fieldCheck{"name", product.Name, values[1]},
			fieldCheck{"SKU", product.SKU, values[2]},
			fieldCheck{"price", product.PriceText(), values[3]},
		)
	})
}

// CatalogAddFormPage is the Create New Product form.
type CatalogAddFormPage struct {
	formPage

	ActiveTab *elements.Button
	Tab       *elements.Button

	NameInput      *elements.Input
	PriceInput     *elements.Input
	SKUInput       *elements.Input
	AddImageButton *elements.Button
	NewImageInput  *elements.Input

	ShortDescInput *elements.Input
	DescInput      *elements.Input

	QuantityInput *elements.Input
}

func NewCatalogAddFormPage(s *ui.Session) *CatalogAddFormPage {
	f := newCatalogForm(s, "Admin/Catalog/AddProductForm",
		"/admin/?category_id=0&app=catalog&doc=edit_product", "Create New Product")
	return &f
}

func newCatalogForm(s *ui.Session, name, path, header string) CatalogAddFormPage {
	return CatalogAddFormPage{
		formPage:  newFormPage(s, name, path, header, []string{"Catalog", header}),
		ActiveTab: elements.NewButton(s, "#content nav a.active", "Active Tab"),
		Tab:       elements.NewButton(s, "#content nav a[href='#tab-{{ name }}']", "Form Tab"),

		NameInput:      elements.NewInput(s, "#tab-general input[name='name[en]']", "General/Name"),
		PriceInput:     elements.NewInput(s, "#tab-general input[name='prices[USD]']", "General/Price"),
		SKUInput:       elements.NewInput(s, "#tab-general input[name=sku]", "General/SKU"),
		AddImageButton: elements.NewButton(s, "#tab-general #images a.add", "General/Add Image"),
		NewImageInput:  elements.NewInput(s, "#tab-general #images div.new-images div.image:last-child input", "General/Last New Image"),

		ShortDescInput: elements.NewInput(s, "#tab-information input[name*=short_description]", "Information/Short Description"),
		DescInput:      elements.NewTextarea(s, "#tab-information textarea[name^=description]", "Information/Description"),

		QuantityInput: elements.NewInput(s, "#tab-stock tbody input[name=quantity]", "Stock/Quantity"),
	}
}

func (f *CatalogAddFormPage) VerifyPage() error {
	return f.verify(visible(
		f.SaveButton, f.CancelButton, f.ActiveTab,
		f.NameInput, f.PriceInput, f.SKUInput, f.AddImageButton,
	))
}

func (f *CatalogAddFormPage) SwitchTab(tab models.ProductFormTab) error {
	return f.s.Step(fmt.Sprintf("Switching form tab to %q", tab), func() error {
		return f.Tab.Click(elements.Q{"name": string(tab)})
	})
}

// FillFromEntity fills the fields a product needs to be listed in the
// storefront and uploads its images.
func (f *CatalogAddFormPage) FillFromEntity(product *models.ProductEntity) error {
	f.s.Log.Sugar().Infof("populating %s form with %s", f.header, product)
	return f.s.Step(fmt.Sprintf("Populate %q form with entity data", f.header), func() error {
		if err := f.SwitchTab(models.ProductTabGeneral); err != nil {
			return err
		}
		if err := f.NameInput.ClickAndFill(product.Name, elements.Plain); err != nil {
			return err
		}
		if err := f.PriceInput.ClickAndFill(product.PriceText(), elements.Plain); err != nil {
			return err
		}
		if err := f.SKUInput.ClickAndFill(product.SKU, elements.Plain); err != nil {
			return err
		}
		for _, img := range product.Images {
			if err := f.AddImageButton.Click(); err != nil {
				return err
			}
			if err := f.NewImageInput.SetFiles([]string{img}); err != nil {
				return err
			}
		}

		if err := f.SwitchTab(models.ProductTabInformation); err != nil {
			return err
		}
		if err := f.ShortDescInput.ClickAndFill(product.ShortDesc, elements.Plain); err != nil {
			return err
		}
		if err := f.DescInput.ClickAndFill(product.FullDesc, elements.Plain); err != nil {
			return err
		}

		if err := f.SwitchTab(models.ProductTabStock); err != nil {
			return err
		}
		return f.QuantityInput.ClickAndFill(strconv.Itoa(product.Quantity), elements.Plain)
	})
}

// CatalogEditFormPage is the Edit Product form.
type CatalogEditFormPage struct {
	CatalogAddFormPage
	entityID string

	DeleteButton      *elements.Button
	AddedImages       *elements.List
	AddedImage        *elements.Image
	RemoveImageButton *elements.Button
}

func NewCatalogEditFormPage(s *ui.Session, entityID, entityName string) *CatalogEditFormPage {
	path := "/admin/?app=catalog&doc=edit_product&category_id=0&product_id=" + entityID
	return &CatalogEditFormPage{
		CatalogAddFormPage: newCatalogForm(s, "Admin/Catalog/EditForm", path, "Edit Product: "+entityName),
		entityID:           entityID,
		DeleteButton:       elements.NewButton(s, "#content .card-action button[name='delete']", "Delete"),
		AddedImages:        elements.NewList(s, "#tab-general #images div.images img", "Added Images"),
		AddedImage:         elements.NewImage(s, "#tab-general #images div.images img >> nth={{ n }}", "Added Image"),
		RemoveImageButton:  elements.NewButton(s, "#tab-general div.images div.form-group:last-child a.remove", "Remove Image"),
	}
}

func (f *CatalogEditFormPage) EntityID() string { return f.entityID }

func (f *CatalogEditFormPage) VerifyPage() error {
	return f.verify(visible(
		f.SaveButton, f.CancelButton, f.ActiveTab,
		f.NameInput, f.PriceInput, f.SKUInput, f.AddImageButton,
		f.DeleteButton,
	))
}

// Delete clicks Delete, accepting the confirmation prompt when confirm
// is set.
func (f *CatalogEditFormPage) Delete(confirm bool) error {
	return deleteWithDialog(f.s, f.DeleteButton, confirm)
}

// RemoveAddedImages removes every image already attached to the product.
func (f *CatalogEditFormPage) RemoveAddedImages() error {
	return f.s.Step("Removing product images", func() error {
		n, err := f.AddedImages.Count()
		if err != nil {
			return err
		}
		for range n {
			if err := f.RemoveImageButton.Click(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *CatalogEditFormPage) URLShouldContainEntityID() error {
	return f.ShouldHaveURL()
}

// FormDataShouldMatch checks every form field against product.
func (f *CatalogEditFormPage) FormDataShouldMatch(product *models.ProductEntity) error {
	return f.s.Step("Form data should match the product", func() error {
		if err := f.SwitchTab(models.ProductTabGeneral); err != nil {
			return err
		}
		if err := f.NameInput.ShouldHaveValue(product.Name, elements.Plain); err != nil {
			return err
		}
		if err := f.PriceInput.ShouldHaveValue(product.PriceText(), elements.Plain); err != nil {
			return err
		}
		if err := f.SKUInput.ShouldHaveValue(product.SKU, elements.Plain); err != nil {
			return err
		}
		if len(product.Images) > 0 {
			if err := f.RemoveImageButton.ShouldBeVisible(); err != nil {
				return err
			}
			if err := f.AddedImages.ShouldHaveSizeOf(len(product.Images)); err != nil {
				return err
			}
		}

		if err := f.SwitchTab(models.ProductTabInformation); err != nil {
			return err
		}
		if err := f.ShortDescInput.ShouldHaveValue(product.ShortDesc, elements.Plain); err != nil {
			return err
		}
		if err := f.DescInput.ShouldHaveValue(product.FullDesc, elements.Plain); err != nil {
			return err
		}

		if err := f.SwitchTab(models.ProductTabStock); err != nil {
			return err
		}
		return f.QuantityInput.ShouldHaveValue(strconv.Itoa(product.Quantity), elements.Plain)
	})
}

// ImagesShouldMatch compares every added image with the original file
// it was uploaded from, in upload order.
func (f *CatalogEditFormPage) ImagesShouldMatch(originals []string, threshold float64) error {
	return f.s.Step("Uploaded images should match the originals", func() error {
		if err := f.SwitchTab(models.ProductTabGeneral); err != nil {
			return err
		}
		for i, path := range originals {
			if err := f.AddedImage.SourceShouldMatch(path, threshold, elements.Q{"n": i}); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteWithDialog(s *ui.Session, button *elements.Button, confirm bool) error {
	return s.Step("Deleting entity", func() error {
		if confirm {
			s.Page.OnDialog(func(d playwright.Dialog) {
				_ = d.Accept()
			})
		}
		return button.Click()
	})
}
