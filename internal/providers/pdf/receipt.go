package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/innovatun/console/internal/billing"
)

func (p *provider) GenerateReceipt(ctx context.Context, row billing.Record) (io.Reader, error) {
	company := p.company()

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(25,
		text.NewCol(6, "RECEIPT", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(6, row.ReceiptNumber, props.Text{
			Size:  12,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold}),
			text.New(company.Address, props.Text{Top: 5}),
			text.New(company.City, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold}),
			text.New(row.CustomerName, props.Text{Top: 5}),
			text.New(row.CustomerEmail, props.Text{Top: 9}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, row.TotalPaid+" paid", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Billing period", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(12,
		text.NewCol(6, row.Plan+" Plan", props.Text{Size: 9}),
		text.NewCol(3, row.BillingPeriod, props.Text{Size: 9}),
		text.NewCol(3, "$"+billing.FormatMoney(row.Amount), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		text.NewCol(6, "Payment method: "+row.PaymentMethod, props.Text{Size: 9}),
		text.NewCol(6, "Status: "+strings.ToUpper(row.Status), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(12, "Thank you for your business. Contact "+company.SupportEmail, props.Text{Size: 8, Top: 6}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	p.metrics.RecordPDFDocument(ctx, "receipt")

	return bytes.NewReader(doc.GetBytes()), nil
}
