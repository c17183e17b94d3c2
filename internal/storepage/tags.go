package storepage

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/apperr"
)

// TagDeps are the collaborators the shopping tag set delegates to.
type TagDeps struct {
	Catalog CatalogFinder
	// ImageHost serves product imagery for the expresspurchase button.
	ImageHost string
	// ProcessorURL is the default payment processor endpoint, used when a
	// checkout:process tag carries no processor_url attribute.
	ProcessorURL string
}

// expandChildren is the block handler for pure namespacing tags.
func expandChildren(t *Tag) (string, error) {
	return t.Expand()
}

// NewShoppingRegistry builds the registry of shopping tags and validates
// it. Called once from the module constructor.
func NewShoppingRegistry(deps TagDeps) (*Registry, error) {
	defs := map[string]Definition{
		"shopping":                   {Kind: KindBlock, Handle: expandChildren},
		"shopping:product":           {Kind: KindBlock, Handle: expandChildren},
		"shopping:cart":              {Kind: KindBlock, Handle: expandChildren},
		"shopping:cart:item":         {Kind: KindBlock, Handle: expandChildren},
		"shopping:checkout":          {Kind: KindBlock, Handle: expandChildren},
		"shopping:eula":              {Kind: KindBlock, Handle: expandChildren},
		"img_host":                   {Kind: KindScalar, Handle: func(*Tag) (string, error) { return deps.ImageHost, nil }},
		"shopping:product:each":      {Kind: KindIterating, Handle: productEach(deps.Catalog)},
		"shopping:product:code":      {Kind: KindScalar, Handle: productField(func(p domain.Product) string { return p.Code })},
		"shopping:product:description": {
			Kind:   KindScalar,
			Handle: productField(func(p domain.Product) string { return p.Description }),
		},
		"shopping:product:price":           {Kind: KindScalar, Handle: productPrice},
		"shopping:product:link":            {Kind: KindBlock, Handle: productLink},
		"shopping:product:addtocart":       {Kind: KindScalar, Handle: productAddToCart},
		"shopping:product:expresspurchase": {Kind: KindScalar, Handle: productExpressPurchase},
		"shopping:cart:form":               {Kind: KindBlock, Handle: cartForm},
		"shopping:cart:total":              {Kind: KindScalar, Handle: cartTotal},
		"shopping:cart:empty": {
			Kind:   KindScalar,
			Handle: func(*Tag) (string, error) { return cart.CartFormFragmentToEmptyCart(), nil },
		},
		"shopping:cart:update": {
			Kind:   KindScalar,
			Handle: func(*Tag) (string, error) { return cart.CartFormFragmentToUpdateCart(), nil },
		},
		"shopping:cart:checkout": {
			Kind: KindScalar,
			Handle: func(t *Tag) (string, error) {
				return anchor(t.Context().PagePath+"/checkout/", "checkout"), nil
			},
		},
		"shopping:eula:link": {
			Kind: KindScalar,
			Handle: func(t *Tag) (string, error) {
				return anchor(t.Context().PagePath+"/eula/", "terms and conditions"), nil
			},
		},
		"shopping:cart:item:each":     {Kind: KindIterating, Handle: cartItemEach},
		"shopping:cart:item:code":     {Kind: KindScalar, Handle: cartItemCode},
		"shopping:cart:item:quantity": {Kind: KindScalar, Handle: cartItemQuantity},
		"shopping:cart:item:unitcost": {Kind: KindScalar, Handle: cartItemUnitCost},
		"shopping:cart:item:subtotal": {Kind: KindScalar, Handle: cartItemSubtotal},
		"shopping:cart:item:remove":   {Kind: KindScalar, Handle: cartItemRemove},
		"shopping:cart:item:update":   {Kind: KindScalar, Handle: cartItemUpdate},
		"shopping:attempted_url":      {Kind: KindScalar, Handle: attemptedURL},
		"shopping:checkout:process":   {Kind: KindScalar, Handle: checkoutProcess(deps.ProcessorURL)},
		"shopping:form_errors":        {Kind: KindScalar, Handle: formErrors},
	}
	return NewRegistry(defs)
}

// productEach iterates the products named in the only attribute, or the
// whole catalog without one. Codes in only that miss the catalog are
// dropped silently; an empty collection produces empty output.
func productEach(catalog CatalogFinder) TagHandler {
	return func(t *Tag) (string, error) {
		var products []domain.Product
		if only := strings.Fields(t.Attr("only")); len(only) > 0 {
			for _, code := range only {
				p, err := catalog.FindByCode(t.RequestContext(), code)
				if err != nil {
					if apperr.GetKind(err) == apperr.KindNotFound {
						continue
					}
					return "", err
				}
				products = append(products, p)
			}
		} else {
			all, err := catalog.FindAll(t.RequestContext())
			if err != nil {
				return "", err
			}
			products = all
		}

		var out strings.Builder
		for _, p := range products {
			expanded, err := t.ExpandWith(t.Context().WithProduct(p))
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
		}
		return out.String(), nil
	}
}

func productField(field func(domain.Product) string) TagHandler {
	return func(t *Tag) (string, error) {
		p, err := t.Context().CurrentProduct()
		if err != nil {
			return "", err
		}
		return field(p), nil
	}
}

func productPrice(t *Tag) (string, error) {
	p, err := t.Context().CurrentProduct()
	if err != nil {
		return "", err
	}
	quantity, err := strconv.Atoi(t.AttrDefault("quantity", "1"))
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("shopping:product:price: bad quantity attribute %q", t.Attr("quantity")))
	}
	return domain.FormatCents(p.PriceForQuantity(quantity)), nil
}

func productLink(t *Tag) (string, error) {
	p, err := t.Context().CurrentProduct()
	if err != nil {
		return "", err
	}
	text, err := t.Expand()
	if err != nil {
		return "", err
	}
	return anchor(t.Context().PagePath+"/"+p.Code, text), nil
}

func productAddToCart(t *Tag) (string, error) {
	p, err := t.Context().CurrentProduct()
	if err != nil {
		return "", err
	}
	return cart.FormToAddOrUpdateProduct(p), nil
}

func productExpressPurchase(t *Tag) (string, error) {
	p, err := t.Context().CurrentProduct()
	if err != nil {
		return "", err
	}
	host, err := t.RenderTag("img_host")
	if err != nil {
		return "", err
	}
	imgSrc := "http://" + host + t.Attr("src")
	return cart.FormToExpressPurchase(p, t.Attr("next_url"), t.Attr("quantity"), imgSrc), nil
}

// cartForm wraps its children in the cart form. On the cart page itself
// the bare form is enough; embedded in any other page it also gets the
// fixed container div and the ajaxify script so submissions refresh the
// fragment in place.
func cartForm(t *Tag) (string, error) {
	inner, err := t.Expand()
	if err != nil {
		return "", err
	}
	form := cart.CartFormStartFragment() + inner + cart.CartFormEndFragment()
	if t.Context().Type == PageCart {
		return form, nil
	}
	return fmt.Sprintf(`<div id="%s">%s</div>%s`,
		cart.AjaxifyFormDivID, form, cart.AjaxifyScript(t.Context().PagePath)), nil
}

func cartTotal(t *Tag) (string, error) {
	c, err := t.Context().SessionCart()
	if err != nil {
		return "", err
	}
	return domain.FormatCents(c.TotalCents()), nil
}

// cartItemEach iterates the cart's lines in insertion order, or emits the
// literal "(empty)" when the cart has none. Note the deliberate contrast
// with product:each, which emits nothing for an empty collection.
func cartItemEach(t *Tag) (string, error) {
	c, err := t.Context().SessionCart()
	if err != nil {
		return "", err
	}
	if c.Len() == 0 {
		return "(empty)", nil
	}
	var out strings.Builder
	for _, line := range c.Lines {
		expanded, err := t.ExpandWith(t.Context().WithCartLine(line))
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
	}
	return out.String(), nil
}

func cartItemCode(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return line.Product.Code, nil
}

func cartItemQuantity(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(line.Quantity), nil
}

func cartItemUnitCost(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return domain.FormatCentsWide(line.UnitCents()), nil
}

func cartItemSubtotal(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return domain.FormatCentsWide(line.SubtotalCents()), nil
}

func cartItemRemove(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return cart.CartFormFragmentToRemoveItem(line.Product), nil
}

func cartItemUpdate(t *Tag) (string, error) {
	line, err := t.Context().CurrentCartLine()
	if err != nil {
		return "", err
	}
	return cart.CartFormFragmentToAlterItemQuantity(line.Product, line.Quantity), nil
}

func attemptedURL(t *Tag) (string, error) {
	if t.Context().RequestURI == "" {
		return "", nil
	}
	return html.EscapeString(t.Context().RequestURI), nil
}

func checkoutProcess(defaultProcessorURL string) TagHandler {
	return func(t *Tag) (string, error) {
		inner, err := t.Expand()
		if err != nil {
			return "", err
		}
		processorURL := t.AttrDefault("processor_url", defaultProcessorURL)
		return cart.FormToPaymentProcessor(processorURL, t.Attr("next_url"), inner), nil
	}
}

func formErrors(t *Tag) (string, error) {
	if t.Context().FormErrors == "" {
		return "", nil
	}
	return fmt.Sprintf(`<div class="form_errors"><p>%s</p></div>`, t.Context().FormErrors), nil
}

func anchor(url, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, url, text)
}
