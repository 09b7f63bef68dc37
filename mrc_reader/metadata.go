package mrc_reader

import (
	"fmt"
	"strings"

	"obscura/contracts"
)

// Metadata flattens the header into the container metadata map.
func (h *Header) Metadata() contracts.MetadataMap {
	md := contracts.MetadataMap{
		"nx":       contracts.Integer(int64(h.NX)),
		"ny":       contracts.Integer(int64(h.NY)),
		"nz":       contracts.Integer(int64(h.NZ)),
		"nx_start": contracts.Integer(int64(h.NXStart)),
		"ny_start": contracts.Integer(int64(h.NYStart)),
		"nz_start": contracts.Integer(int64(h.NZStart)),

		"sampling_x": contracts.Integer(int64(h.MX)),
		"sampling_y": contracts.Integer(int64(h.MY)),
		"sampling_z": contracts.Integer(int64(h.MZ)),

		"cell_dim_x": contracts.Number(float64(h.XLen)),
		"cell_dim_y": contracts.Number(float64(h.YLen)),
		"cell_dim_z": contracts.Number(float64(h.ZLen)),
		"cell_ang_x": contracts.Number(float64(h.Alpha)),
		"cell_ang_y": contracts.Number(float64(h.Beta)),
		"cell_ang_z": contracts.Number(float64(h.Gamma)),

		"map_c": contracts.Integer(int64(h.MapC)),
		"map_r": contracts.Integer(int64(h.MapR)),
		"map_s": contracts.Integer(int64(h.MapS)),

		"density_min":  contracts.Number(float64(h.DMin)),
		"density_max":  contracts.Number(float64(h.DMax)),
		"density_mean": contracts.Number(float64(h.DMean)),

		"ispg":          contracts.Integer(int64(h.ISpg)),
		"rms_deviation": contracts.Number(float64(h.RMS)),

		"exttyp":     contracts.String(h.ExtType()),
		"nversion":   contracts.Integer(int64(h.NVersion())),
		"endianness": contracts.String(EndiannessOf(h.MachSt).String()),
		"machst":     contracts.String(machStampHex(h.MachSt)),

		"origin_x": contracts.Number(float64(h.Origin[0])),
		"origin_y": contracts.Number(float64(h.Origin[1])),
		"origin_z": contracts.Number(float64(h.Origin[2])),
	}

	if mode, err := ParseMode(h.Mode); err == nil {
		md["mode"] = contracts.String(mode.String())
	} else {
		md["mode"] = contracts.Integer(int64(h.Mode))
	}

	for i, label := range h.Labels() {
		md[fmt.Sprintf("label_%d", i)] = contracts.String(label)
	}
	return md
}

// trimLabel decodes a fixed-width text field, dropping trailing NULs and
// whitespace. Invalid UTF-8 is replaced rather than rejected.
func trimLabel(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), "�")
	return strings.TrimRight(s, " \t\r\n\x00")
}
