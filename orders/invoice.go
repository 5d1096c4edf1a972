package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// DownloadInvoice renders an order as a PDF. The QR code carries the order
// number so warehouse staff can pull the order up by scanning the slip.
func DownloadInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(),
		bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.UserID != utils.GetUserIDFromRequest(r) && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot view this order")
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to generate invoice", err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderNumber))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Customer: %s %s", order.CustomerInfo.FirstName, order.CustomerInfo.LastName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ship to: %s, %s %s, %s",
		order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Price")
	pdf.Cell(35, 8, "Subtotal")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, item := range order.Items {
		pdf.Cell(90, 8, item.Name)
		pdf.Cell(25, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.Price))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Items: %.2f", order.ItemsPrice))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.2f", order.ShippingPrice))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Tax: %.2f", order.TaxPrice))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalPrice))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithInternalError(w, "Failed to generate invoice", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
