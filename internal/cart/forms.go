package cart

import (
	"fmt"
	"html"

	"storefront_backend/internal/catalog/domain"
)

// Cart mutation endpoints the generated fragments post to. They are
// registered by this module's handler; the fragment builders and the routes
// must stay in lockstep.
const (
	ActionAdd      = "/cart/add"
	ActionUpdate   = "/cart/update"
	ActionExpress  = "/cart/express"
	ActionCheckout = "/cart/checkout"
)

// AjaxifyFormDivID is the fixed container id the cart form is wrapped in
// when embedded into an arbitrary page for AJAX refresh.
const AjaxifyFormDivID = "store_cart_form"

// FormToAddOrUpdateProduct builds a standalone add-to-cart form for the
// product. Posting it adds the product or replaces its quantity.
func FormToAddOrUpdateProduct(p domain.Product) string {
	code := html.EscapeString(p.Code)
	return fmt.Sprintf(
		`<form method="post" action="%s" class="addtocart">`+
			`<input type="hidden" name="code" value="%s" />`+
			`<input type="text" name="quantity" value="1" size="2" />`+
			`<input type="submit" value="add to cart" />`+
			`</form>`,
		ActionAdd, code)
}

// FormToExpressPurchase builds the one-click purchase form: an image submit
// that places an order for the product at the given quantity and sends the
// shopper to nextURL.
func FormToExpressPurchase(p domain.Product, nextURL, quantity, imgSrc string) string {
	if quantity == "" {
		quantity = "1"
	}
	return fmt.Sprintf(
		`<form method="post" action="%s" class="expresspurchase">`+
			`<input type="hidden" name="code" value="%s" />`+
			`<input type="hidden" name="quantity" value="%s" />`+
			`<input type="hidden" name="next_url" value="%s" />`+
			`<input type="image" src="%s" alt="express purchase" />`+
			`</form>`,
		ActionExpress,
		html.EscapeString(p.Code),
		html.EscapeString(quantity),
		html.EscapeString(nextURL),
		html.EscapeString(imgSrc))
}

// CartFormStartFragment opens the cart form. Every per-item fragment below
// renders inside it and submits to the update endpoint.
func CartFormStartFragment() string {
	return fmt.Sprintf(`<form method="post" action="%s" class="cart">`, ActionUpdate)
}

// CartFormEndFragment closes the cart form.
func CartFormEndFragment() string {
	return `</form>`
}

// AjaxifyScript returns the script fragment that turns the embedded cart
// form into an in-place fragment: submissions refetch basePath/cart and
// swap it into the container without a full page load.
func AjaxifyScript(basePath string) string {
	cartURL := html.EscapeString(basePath + "/cart")
	return fmt.Sprintf(`<script>
(function () {
	var container = document.getElementById(%q);
	if (!container) { return; }
	container.addEventListener("submit", function (event) {
		var form = event.target;
		event.preventDefault();
		fetch(form.action, { method: "POST", body: new FormData(form) })
			.then(function () { return fetch("%s"); })
			.then(function (response) { return response.text(); })
			.then(function (markup) { container.innerHTML = markup; });
	});
})();
</script>`, AjaxifyFormDivID, cartURL)
}

// CartFormFragmentToEmptyCart renders the empty-cart submit for the cart form.
func CartFormFragmentToEmptyCart() string {
	return `<input type="submit" name="empty" value="empty cart" />`
}

// CartFormFragmentToUpdateCart renders the update submit for the cart form.
func CartFormFragmentToUpdateCart() string {
	return `<input type="submit" name="update" value="update cart" />`
}

// CartFormFragmentToRemoveItem renders the remove control for one line.
func CartFormFragmentToRemoveItem(p domain.Product) string {
	return fmt.Sprintf(`<button type="submit" name="remove" value="%s">remove</button>`,
		html.EscapeString(p.Code))
}

// CartFormFragmentToAlterItemQuantity renders the quantity input for one
// line, named after the product code so the update endpoint can match it.
func CartFormFragmentToAlterItemQuantity(p domain.Product, quantity int) string {
	return fmt.Sprintf(`<input type="text" name="quantity_%s" value="%d" size="2" />`,
		html.EscapeString(p.Code), quantity)
}

// FormToPaymentProcessor builds the hand-off form to the external payment
// processor, embedding the evaluated tag children as its visible content.
func FormToPaymentProcessor(processorURL, nextURL, inner string) string {
	return fmt.Sprintf(
		`<form method="post" action="%s" class="checkout">`+
			`<input type="hidden" name="next_url" value="%s" />`+
			`%s`+
			`<input type="submit" value="pay now" />`+
			`</form>`,
		html.EscapeString(processorURL),
		html.EscapeString(nextURL),
		inner)
}
