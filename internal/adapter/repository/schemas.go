package repository

import "github.com/eslsoft/wordpicker/pkg/filterexpr"

var listWordRecordsSchema = filterexpr.Schema{
	Fields: map[string]filterexpr.FilterField{
		"text": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Text",
				filterexpr.OpSW: "TextPrefix",
				filterexpr.OpIN: "Texts",
			},
		},
		"timestamp": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "Since",
				filterexpr.OpLTE: "Until",
			},
		},
	},
}
