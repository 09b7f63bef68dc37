package contracts

type InputFlags struct {
	InputPath    string
	OutputDir    string
	ManifestType string
	WritePNG     bool
	WritePDF     bool
	Workers      int
}
