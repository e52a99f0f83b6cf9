// Package catalog lists the countries, networks and fee rates the checkout
// supports.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodMobile Method = "mobile"
	MethodCard   Method = "card"
	MethodWallet Method = "wallet"
)

func (m Method) Valid() bool {
	return m == MethodMobile || m == MethodCard || m == MethodWallet
}

const (
	Benin            = "Benin"
	Togo             = "Togo"
	CoteDIvoire      = "Côte d'Ivoire"
	BurkinaFaso      = "Burkina Faso"
	Senegal          = "Senegal"
	CongoBrazzaville = "Congo-Brazzaville"
)

const (
	NetworkMTN       = "MTN"
	NetworkMoov      = "MOOV"
	NetworkCeltiis   = "CELLTIS"
	NetworkCoris     = "CORIS"
	NetworkYas       = "YAS"
	NetworkOrange    = "ORANGE"
	NetworkWave      = "WAVE"
	NetworkFreeMoney = "FREE MONEY"
	NetworkCard      = "CARD"
)

var (
	defaultRate = decimal.RequireFromString("0.017")
	cardRate    = decimal.RequireFromString("0.045")
)

// Selection is what the payer picked in the checkout form.
type Selection struct {
	Country string `json:"country"`
	Network string `json:"network"`
	Method  Method `json:"method"`
}

type Network struct {
	Name    string
	APIID   string
	FeeRate decimal.Decimal
}

type Country struct {
	Name     string
	DialCode string
	Networks []Network
	Wallets  []Network
}

func (c Country) Network(name string) (Network, bool) {
	return find(c.Networks, name)
}

func (c Country) Wallet(name string) (Network, bool) {
	return find(c.Wallets, name)
}

func find(list []Network, name string) (Network, bool) {
	for _, n := range list {
		if strings.EqualFold(n.Name, name) {
			return n, true
		}
	}
	return Network{}, false
}

func network(name, apiID, rate string) Network {
	return Network{Name: name, APIID: apiID, FeeRate: decimal.RequireFromString(rate)}
}

var countries = []Country{
	{
		Name:     Benin,
		DialCode: "229",
		Networks: []Network{
			network(NetworkMTN, "mtn", "0.017"),
			network(NetworkMoov, "moov", "0.017"),
			network(NetworkCeltiis, "celtiis bj", "0.017"),
			network(NetworkCoris, "coris", "0.017"),
		},
		Wallets: []Network{network(NetworkCoris, "coris", "0.017")},
	},
	{
		Name:     Togo,
		DialCode: "228",
		Networks: []Network{
			network(NetworkYas, "togocom tg", "0.03"),
			network(NetworkMoov, "moov tg", "0.03"),
		},
	},
	{
		Name:     CoteDIvoire,
		DialCode: "225",
		Networks: []Network{
			network(NetworkMTN, "mtn ci", "0.029"),
			network(NetworkOrange, "orange ci", "0.029"),
			network(NetworkMoov, "moov ci", "0.029"),
			network(NetworkWave, "wave ci", "0.032"),
		},
		Wallets: []Network{network(NetworkWave, "wave_ci", "0.032")},
	},
	{
		Name:     BurkinaFaso,
		DialCode: "226",
		Networks: []Network{
			network(NetworkOrange, "orange bf", "0.039"),
			network(NetworkMoov, "moov bf", "0.022"),
		},
	},
	{
		Name:     Senegal,
		DialCode: "221",
		Networks: []Network{
			network(NetworkOrange, "orange sn", "0.019"),
			network(NetworkFreeMoney, "free sn", "0.019"),
		},
	},
	{
		Name:     CongoBrazzaville,
		DialCode: "242",
		Networks: []Network{network(NetworkMTN, "mtn cg", "0.03")},
	},
}

// Countries returns every supported country in display order.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

func LookupCountry(name string) (Country, bool) {
	for _, c := range countries {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Country{}, false
}

// FeeRate resolves the rate for a selection. Unknown pairs fall back to 1.7%.
func FeeRate(sel Selection) decimal.Decimal {
	if sel.Method == MethodCard {
		return cardRate
	}

	c, ok := LookupCountry(sel.Country)
	if !ok {
		return defaultRate
	}

	var (
		n     Network
		found bool
	)
	if sel.Method == MethodWallet {
		n, found = c.Wallet(sel.Network)
	} else {
		n, found = c.Network(sel.Network)
	}
	if !found {
		return defaultRate
	}
	return n.FeeRate
}

// FeeNetwork is the reseau value the fee lookup endpoint expects.
func FeeNetwork(sel Selection) string {
	if sel.Method == MethodCard {
		return NetworkCard
	}
	return sel.Network
}

// RequiresUpfrontOTP reports whether the payer must type an OTP before paying.
// Orange Senegal hands it out through #144#391#.
func RequiresUpfrontOTP(sel Selection) bool {
	return sel.Method == MethodMobile &&
		strings.EqualFold(sel.Country, Senegal) &&
		strings.EqualFold(sel.Network, NetworkOrange)
}
