package jurisdiction

// Info describes how a jurisdiction names its VAT identifier.
type Info struct {
	Code    Code   `json:"code"`
	Country string `json:"country"`
	Name    string `json:"name"`
	Abbrev  string `json:"abbrev,omitempty"`
}

var infos = map[Code]Info{
	AT: {Country: "Austria", Name: "Umsatzsteuer-Identifikationsnummer", Abbrev: "UID"},
	BE: {Country: "Belgium", Name: "BTW identificatienummer", Abbrev: "BTW-nr"},
	BG: {Country: "Bulgaria", Name: "Identifikacionen nomer po DDS", Abbrev: "DDS"},
	CY: {Country: "Cyprus", Name: "Arithmos Engraphes phi. pi. a.", Abbrev: "FPA"},
	CZ: {Country: "Czech Republic", Name: "Danove identifikacni cislo", Abbrev: "DIC"},
	DE: {Country: "Germany", Name: "Umsatzsteuer-Identifikationsnummer", Abbrev: "USt-IdNr"},
	DK: {Country: "Denmark", Name: "Momsregistreringsnummer", Abbrev: "CVR"},
	EE: {Country: "Estonia", Name: "Kaibemaksukohustuslase number", Abbrev: "KMKR"},
	EL: {Country: "Greece", Name: "Arithmos Forologikou Mitroou", Abbrev: "AFM"},
	ES: {Country: "Spain", Name: "Numero de Identificacion Fiscal", Abbrev: "NIF"},
	FI: {Country: "Finland", Name: "Arvonlisaveronumero", Abbrev: "ALV nro"},
	FR: {Country: "France", Name: "Numero de TVA intracommunautaire", Abbrev: "TVA"},
	GB: {Country: "United Kingdom", Name: "Value Added Tax registration number", Abbrev: "VAT Reg No"},
	HR: {Country: "Croatia", Name: "PDV identifikacijski broj OIB", Abbrev: "PDV-ID"},
	HU: {Country: "Hungary", Name: "Kozossegi adoszam", Abbrev: "ANUM"},
	IE: {Country: "Ireland", Name: "Value added tax identification no.", Abbrev: "VAT/CBL"},
	IT: {Country: "Italy", Name: "Partita IVA", Abbrev: "P.IVA"},
	LT: {Country: "Lithuania", Name: "Pridetines vertes mokescio moketojo kodas", Abbrev: "PVM kodas"},
	LU: {Country: "Luxembourg", Name: "Numero d'identification a la taxe sur la valeur ajoutee", Abbrev: "No. TVA"},
	LV: {Country: "Latvia", Name: "Pievienotas vertibas nodokla", Abbrev: "PVN"},
	MT: {Country: "Malta", Name: "Vat reg. no.", Abbrev: "VAT No."},
	NL: {Country: "Netherlands", Name: "Btw-identificatienummer", Abbrev: "Btw-nr"},
	PL: {Country: "Poland", Name: "Numer identyfikacji podatkowej", Abbrev: "NIP"},
	PT: {Country: "Portugal", Name: "Numero de Identificacao Fiscal", Abbrev: "NIF"},
	RO: {Country: "Romania", Name: "Codul de identificare fiscala", Abbrev: "CIF"},
	SE: {Country: "Sweden", Name: "Momsregistreringsnummer", Abbrev: "Momsnr"},
	SI: {Country: "Slovenia", Name: "Davcna stevilka", Abbrev: "ID za DDV"},
	SK: {Country: "Slovakia", Name: "Identifikacne cislo pre dan z pridanej hodnoty", Abbrev: "IC DPH"},
}

// Info returns naming metadata for c. The zero Info is returned for unknown codes.
func (c Code) Info() Info {
	i, ok := infos[c]
	if !ok {
		return Info{}
	}
	i.Code = c
	return i
}
