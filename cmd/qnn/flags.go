package main

import (
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindChanged binds flag to key only when the flag was set, so an unset
// flag's zero default never hides env or file values.
func bindChanged(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil || !flag.Changed {
		return nil
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return oops.Code(codeCLISetupFailure).With("flag", flag.Name).Wrapf(err, "binding %s flag", flag.Name)
	}
	return nil
}
