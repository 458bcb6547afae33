package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"lnp-bp.org/rgbiface/compliance"
	"lnp-bp.org/rgbiface/config"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/model"
)

func (a *app) print(v any) error {
	switch format := strings.ToLower(viper.GetString(config.CfgOutputFormat)); format {
	case "", "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func modelMode() (model.ComplianceMode, error) {
	m, err := compliance.ParseMode(viper.GetString(config.CfgComplianceMode))
	if err != nil {
		return "", err
	}
	return model.ComplianceMode(m.String()), nil
}

// ifaceRef reads an interface argument: a file with canonical bytes, or an
// interface id.
func ifaceRef(arg string) (model.BlobRef, error) {
	if b, err := os.ReadFile(arg); err == nil {
		return model.BlobRef{Bytes: b}, nil
	}
	if _, err := iface.ParseIfaceId(arg); err != nil {
		return model.BlobRef{}, fmt.Errorf("%s is neither a readable file nor an interface id", arg)
	}
	return model.BlobRef{ID: arg}, nil
}
