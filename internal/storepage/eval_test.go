package storepage

import (
	"context"
	"strings"
	"testing"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog/domain"
)

func newTestEvaluator(t *testing.T, catalog CatalogFinder) *Evaluator {
	t.Helper()
	registry, err := NewShoppingRegistry(TagDeps{
		Catalog:      catalog,
		ImageHost:    "img.example.com",
		ProcessorURL: "https://pay.example.com/process",
	})
	if err != nil {
		t.Fatalf("NewShoppingRegistry: %v", err)
	}
	return NewEvaluator(registry)
}

func storeContext(c *cart.Cart) RenderContext {
	return RenderContext{Type: PageOrdinary, PagePath: "/store", Cart: c}
}

func evalSource(t *testing.T, e *Evaluator, rc RenderContext, source string) string {
	t.Helper()
	out, err := e.EvaluateString(context.Background(), rc, source)
	if err != nil {
		t.Fatalf("EvaluateString(%q): %v", source, err)
	}
	return out
}

func TestShoppingRegistryValidates(t *testing.T) {
	if _, err := NewShoppingRegistry(TagDeps{Catalog: &fakeCatalog{}}); err != nil {
		t.Fatalf("registry invalid: %v", err)
	}
}

func TestRegistryRejectsOrphanedTag(t *testing.T) {
	_, err := NewRegistry(map[string]Definition{
		"shopping:cart:total": {Kind: KindScalar, Handle: func(*Tag) (string, error) { return "", nil }},
	})
	if err == nil {
		t.Fatal("expected validation error for missing parent namespace")
	}
	if !strings.Contains(err.Error(), "no registered parent") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegistryRejectsNilHandler(t *testing.T) {
	if _, err := NewRegistry(map[string]Definition{"shopping": {Kind: KindBlock}}); err == nil {
		t.Fatal("expected validation error for nil handler")
	}
}

func TestProductEachOnlyAttribute(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		testProduct("alpha", 100),
		testProduct("beta", 200),
		testProduct("gamma", 300),
	}}
	e := newTestEvaluator(t, catalog)

	src := `<r:shopping:product:each only="alpha missing gamma">[<r:shopping:product:code />]</r:shopping:product:each>`
	got := evalSource(t, e, storeContext(&cart.Cart{}), src)
	if got != "[alpha][gamma]" {
		t.Fatalf("got %q, want [alpha][gamma]", got)
	}
}

func TestProductEachFullCatalog(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		testProduct("alpha", 100),
		testProduct("beta", 200),
	}}
	e := newTestEvaluator(t, catalog)

	src := `<r:shopping><r:shopping:product:each><r:shopping:product:code /> </r:shopping:product:each></r:shopping>`
	got := evalSource(t, e, storeContext(&cart.Cart{}), src)
	if got != "alpha beta " {
		t.Fatalf("got %q", got)
	}
}

func TestProductEachEmptyCollectionIsSilent(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	src := `<r:shopping:product:each>never</r:shopping:product:each>`
	if got := evalSource(t, e, storeContext(&cart.Cart{}), src); got != "" {
		t.Fatalf("empty catalog produced %q, want empty output", got)
	}
}

func TestProductFieldsAndPrice(t *testing.T) {
	p := domain.Product{
		Code:        "widget",
		Description: "a widget",
		Tiers: []domain.PriceTier{
			{MinQuantity: 1, UnitCents: 300},
			{MinQuantity: 10, UnitCents: 250},
		},
	}
	e := newTestEvaluator(t, &fakeCatalog{products: []domain.Product{p}})
	rc := storeContext(&cart.Cart{}).WithProduct(p)

	cases := []struct {
		src, want string
	}{
		{`<r:shopping:product:code />`, "widget"},
		{`<r:shopping:product:description />`, "a widget"},
		{`<r:shopping:product:price />`, "3.00"},
		{`<r:shopping:product:price quantity="10" />`, "2.50"},
	}
	for _, tc := range cases {
		if got := evalSource(t, e, rc, tc.src); got != tc.want {
			t.Fatalf("%s = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestProductTagsOutsideIterationFail(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	_, err := e.EvaluateString(context.Background(), storeContext(&cart.Cart{}), `<r:shopping:product:code />`)
	if err == nil {
		t.Fatal("expected missing-context error")
	}
	if !strings.Contains(err.Error(), "outside a product context") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIterationBindingIsScoped(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{testProduct("alpha", 100)}}
	e := newTestEvaluator(t, catalog)

	// The binding set inside each must not leak to the sibling tag.
	src := `<r:shopping:product:each><r:shopping:product:code /></r:shopping:product:each><r:shopping:product:code />`
	_, err := e.EvaluateString(context.Background(), storeContext(&cart.Cart{}), src)
	if err == nil {
		t.Fatal("binding leaked out of the iteration subtree")
	}
}

func TestProductLink(t *testing.T) {
	p := testProduct("widget", 300)
	e := newTestEvaluator(t, &fakeCatalog{products: []domain.Product{p}})
	rc := storeContext(&cart.Cart{}).WithProduct(p)

	src := `<r:shopping:product:link>Buy now</r:shopping:product:link>`
	got := evalSource(t, e, rc, src)
	if got != `<a href="/store/widget">Buy now</a>` {
		t.Fatalf("got %q", got)
	}
}

func TestProductAddToCartDelegates(t *testing.T) {
	p := testProduct("widget", 300)
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{}).WithProduct(p)

	got := evalSource(t, e, rc, `<r:shopping:product:addtocart />`)
	if got != cart.FormToAddOrUpdateProduct(p) {
		t.Fatalf("got %q", got)
	}
}

func TestProductExpressPurchaseBuildsImageURL(t *testing.T) {
	p := testProduct("widget", 300)
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{}).WithProduct(p)

	src := `<r:shopping:product:expresspurchase src="/img/widget.png" next_url="/thanks" quantity="2" />`
	got := evalSource(t, e, rc, src)
	want := cart.FormToExpressPurchase(p, "/thanks", "2", "http://img.example.com/img/widget.png")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCartItemEachEmptyCartLiteral(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	src := `<r:shopping:cart:item:each>never</r:shopping:cart:item:each>`
	if got := evalSource(t, e, storeContext(&cart.Cart{}), src); got != "(empty)" {
		t.Fatalf("got %q, want (empty)", got)
	}
}

func TestCartItemTags(t *testing.T) {
	c := &cart.Cart{}
	c.AddOrUpdate(testProduct("alpha", 300), 2)
	c.AddOrUpdate(testProduct("beta", 150), 1)
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(c)

	src := `<r:shopping:cart:item:each><r:shopping:cart:item:code />:<r:shopping:cart:item:quantity />:<r:shopping:cart:item:unitcost />:<r:shopping:cart:item:subtotal />;</r:shopping:cart:item:each>`
	got := evalSource(t, e, rc, src)
	want := "alpha:2:3.00:6.00;beta:1:1.50:1.50;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCartItemTagsOutsideIterationFail(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	_, err := e.EvaluateString(context.Background(), storeContext(&cart.Cart{}), `<r:shopping:cart:item:code />`)
	if err == nil {
		t.Fatal("expected missing-context error")
	}
	if !strings.Contains(err.Error(), "outside a cart item context") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCartTotalFormatting(t *testing.T) {
	c := &cart.Cart{}
	c.AddOrUpdate(testProduct("alpha", 300), 3)
	e := newTestEvaluator(t, &fakeCatalog{})

	if got := evalSource(t, e, storeContext(c), `<r:shopping:cart:total />`); got != "9.00" {
		t.Fatalf("got %q, want 9.00", got)
	}
}

func TestCartFormOnCartPage(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{})
	rc.Type = PageCart

	got := evalSource(t, e, rc, `<r:shopping:cart:form>inner</r:shopping:cart:form>`)
	want := cart.CartFormStartFragment() + "inner" + cart.CartFormEndFragment()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if strings.Contains(got, cart.AjaxifyFormDivID) {
		t.Fatal("cart page form must not carry the ajax container")
	}
}

func TestCartFormEmbeddedGetsAjaxContainer(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	got := evalSource(t, e, storeContext(&cart.Cart{}), `<r:shopping:cart:form>inner</r:shopping:cart:form>`)
	if !strings.Contains(got, `<div id="`+cart.AjaxifyFormDivID+`">`) {
		t.Fatalf("missing ajax container: %q", got)
	}
	if !strings.Contains(got, "<script>") {
		t.Fatalf("missing ajaxify script: %q", got)
	}
}

func TestCartNavigationAnchors(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{})

	if got := evalSource(t, e, rc, `<r:shopping:cart:checkout />`); got != `<a href="/store/checkout/">checkout</a>` {
		t.Fatalf("checkout anchor = %q", got)
	}
	if got := evalSource(t, e, rc, `<r:shopping:eula:link />`); got != `<a href="/store/eula/">terms and conditions</a>` {
		t.Fatalf("eula anchor = %q", got)
	}
}

func TestCheckoutProcessEmbedsChildren(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{})

	src := `<r:shopping:checkout:process processor_url="https://psp.test/pay" next_url="/done">pay details</r:shopping:checkout:process>`
	got := evalSource(t, e, rc, src)
	want := cart.FormToPaymentProcessor("https://psp.test/pay", "/done", "pay details")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCheckoutProcessDefaultsProcessorURL(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	got := evalSource(t, e, storeContext(&cart.Cart{}), `<r:shopping:checkout:process next_url="/done"></r:shopping:checkout:process>`)
	if !strings.Contains(got, "https://pay.example.com/process") {
		t.Fatalf("default processor url missing: %q", got)
	}
}

func TestFormErrors(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{})

	if got := evalSource(t, e, rc, `<r:shopping:form_errors />`); got != "" {
		t.Fatalf("no errors should render empty, got %q", got)
	}

	rc.FormErrors = "Required field"
	got := evalSource(t, e, rc, `<r:shopping:form_errors />`)
	if got != `<div class="form_errors"><p>Required field</p></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestAttemptedURLEscapes(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})
	rc := storeContext(&cart.Cart{})

	if got := evalSource(t, e, rc, `<r:shopping:attempted_url />`); got != "" {
		t.Fatalf("no request uri should render empty, got %q", got)
	}

	rc.RequestURI = `/store/<script>`
	got := evalSource(t, e, rc, `<r:shopping:attempted_url />`)
	if got != "/store/&lt;script&gt;" {
		t.Fatalf("got %q", got)
	}
}

func TestUnregisteredTagPassesThrough(t *testing.T) {
	e := newTestEvaluator(t, &fakeCatalog{})

	src := `before <r:navigation:breadcrumb depth="2" /> after`
	got := evalSource(t, e, storeContext(&cart.Cart{}), src)
	if got != src {
		t.Fatalf("got %q, want source unchanged", got)
	}
}
