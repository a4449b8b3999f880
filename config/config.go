// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads a chain.Config from a configuration file, the
// way the teacher's own configuration package loads its node settings -
// this subsystem does not carry the CGO UCL parser the teacher reaches
// for, since it is not available as an ordinary module dependency; it
// uses spf13/viper instead, the config library already present in the
// dependency graph (see DESIGN.md).
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/spa-chain/spa-node/chain"
)

// Load reads chain parameters from fileName, overlaying defaults for the
// named chain so an operator only has to specify what they want to
// change.
func Load(fileName string, chainName string) (chain.Config, error) {
	var cfg chain.Config
	switch chainName {
	case chain.Testnet:
		cfg = chain.DefaultTestnet()
	default:
		cfg = chain.DefaultMainnet()
	}

	v := viper.New()
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); nil != err {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "config: read failed")
	}

	if v.IsSet("onespa") {
		cfg.ONESPA = v.GetInt64("onespa")
	}
	if v.IsSet("shuffling_block") {
		cfg.ShufflingBlock = v.GetInt32("shuffling_block")
	}
	if v.IsSet("min_prunable_lifetime") {
		cfg.MinPrunableLifetime = v.GetDuration("min_prunable_lifetime")
	}
	if v.IsSet("max_prunable_lifetime") {
		cfg.MaxPrunableLifetime = v.GetDuration("max_prunable_lifetime")
	}
	if v.IsSet("max_encrypted_message_length") {
		cfg.MaxEncryptedMessageLength = v.GetInt("max_encrypted_message_length")
	}
	if v.IsSet("max_prunable_encrypted_message_length") {
		cfg.MaxPrunableEncryptedMessageLength = v.GetInt("max_prunable_encrypted_message_length")
	}
	if v.IsSet("include_expired_prunable") {
		cfg.IncludeExpiredPrunable = v.GetBool("include_expired_prunable")
	}

	return cfg, nil
}
