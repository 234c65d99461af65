package testutil

// OrdersCSV is a small payments export: two sales in January and February,
// with the fee and tax rows that belong to them.
const OrdersCSV = `Date,Type,Title,Info,Currency,Amount,Fees & Taxes,Net,Tax Details
01-Jan-25,Sale,Payment for Order #1001,,USD,$100.00,--,$100.00,--
01-Jan-25,Fee,Transaction fee: Order #1001,Order #1001,USD,--,-$6.50,-$6.50,--
01-Jan-25,Tax,Sales tax: Order #1001,Order #1001,USD,--,-$1.50,-$1.50,--
14-Feb-25,Sale,Payment for Order #1002,,USD,$150.00,--,$150.00,--
14-Feb-25,Fee,Listing fee,Listing #77,USD,--,-$0.20,-$0.20,--
`

// CostsCSV is a supplier export with one pending purchase.
const CostsCSV = `Order ID,Order Date,Order Status,Order Value,product_title,Shop Name
A-1,2025-01-03,Completed,$40.00,Gift box set,Pack Store
A-2,2025-02-10,Completed,$25.50,Shipping labels,Label Co
A-3,2025-02-11,Pending,$99.00,Display stand,Pack Store
`

// PipeCostsCSV is CostsCSV as written by exporters that announce their
// delimiter on the first line.
const PipeCostsCSV = "sep=|\n" +
	"Order ID|Order Date|Order Status|Order Value|product_title|Shop Name\n" +
	"A-1|2025-01-03|Completed|$1,040.00|Gift box set|Pack Store\n"
