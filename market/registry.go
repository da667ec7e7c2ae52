package market

// DefaultInstruments is the fixed catalog of tradable names. The registry
// never changes at runtime; a custom catalog can be supplied through the
// config file instead.
var DefaultInstruments = []string{
	"Stock Lab",
	"Portfolio Institute",
	"Quant Simulation",
	"Virtual Market Place",
	"Master Trader Academy",
	"Investment Trade Dex",
}
