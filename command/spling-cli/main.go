// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/splinglabs/splingd/command/spling-cli/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "spling-cli"
	app.Usage = "signed requests to a splingd node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "",
			Usage: " configuration `FILE` [$XDG_CONFIG_HOME/spling-cli/spling-cli.json]",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: " identity `NAME` [default identity]",
		},
		cli.StringFlag{
			Name:  "password, p",
			Value: "",
			Usage: " identity `PASSWORD`",
		},
		cli.StringFlag{
			Name:  "connect, C",
			Value: "",
			Usage: " override the configured node `HOST:PORT`",
		},
		cli.StringFlag{
			Name:  "fingerprint, f",
			Value: "",
			Usage: " expected node certificate `HEX` fingerprint",
		},
	}

	amountFlag := cli.StringFlag{
		Name:  "amount, a",
		Value: "",
		Usage: " pay `TOKENS` instead of native fees",
	}
	contentFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "content, k",
			Value: "",
			Usage: "+content hash `ADDRESS`",
		},
		cli.StringFlag{
			Name:  "file, F",
			Value: "",
			Usage: "+hash the content of `FILE`",
		},
		amountFlag,
	}
	idFlags := []cli.Flag{
		cli.UintFlag{
			Name:  "id, n",
			Value: 0,
			Usage: "*numeric `ID`",
		},
		amountFlag,
	}

	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise spling-cli configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*splingd host/IP and port, `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "seed, s",
					Value: "",
					Usage: " using existing ed25519 seed `HEX`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "add",
			Usage:     "add a new identity to config file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "seed, s",
					Value: "",
					Usage: " using existing ed25519 seed `HEX`",
				},
				cli.StringFlag{
					Name:  "account, A",
					Value: "",
					Usage: " base58 `ADDRESS` of a receive only identity",
				},
			},
			Action: runAdd,
		},
		{
			Name:   "info",
			Usage:  "display spling-cli identities",
			Action: runInfo,
		},
		{
			Name:   "password",
			Usage:  "change identity's password",
			Action: runChangePassword,
		},
		{
			Name:   "init-registry",
			Usage:  "create the registry counters",
			Action: runInitialiseRegistry,
		},
		{
			Name:   "init-tags",
			Usage:  "create the tag index",
			Action: runInitialiseTags,
		},
		{
			Name:      "create-user",
			Usage:     "create the identity's user profile",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags:     contentFlags,
			Action:    runCreateUser,
		},
		{
			Name:      "create-group",
			Usage:     "create a group profile owned by the identity",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags:     contentFlags,
			Action:    runCreateGroup,
		},
		{
			Name:      "join",
			Usage:     "join a group",
			ArgsUsage: "\n   (* = required)",
			Flags:     idFlags,
			Action:    runJoinGroup,
		},
		{
			Name:      "leave",
			Usage:     "leave a group",
			ArgsUsage: "\n   (* = required)",
			Flags:     idFlags,
			Action:    runLeaveGroup,
		},
		{
			Name:      "follow",
			Usage:     "follow a user",
			ArgsUsage: "\n   (* = required)",
			Flags:     idFlags,
			Action:    runFollow,
		},
		{
			Name:      "unfollow",
			Usage:     "stop following a user",
			ArgsUsage: "\n   (* = required)",
			Flags:     idFlags,
			Action:    runUnfollow,
		},
		{
			Name:      "delete-user",
			Usage:     "delete the identity's user profile",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{amountFlag},
			Action:    runDeleteUser,
		},
		{
			Name:      "delete-group",
			Usage:     "delete the group created by the identity",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{amountFlag},
			Action:    runDeleteGroup,
		},
		{
			Name:      "post",
			Usage:     "submit a post to a group",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: append([]cli.Flag{
				cli.UintFlag{
					Name:  "group, g",
					Value: 0,
					Usage: "*group `ID`",
				},
				cli.StringFlag{
					Name:  "tag, t",
					Value: "",
					Usage: " tag `NAME`",
				},
				cli.StringFlag{
					Name:  "schedule, s",
					Value: "",
					Usage: " expiry `CRON` schedule",
				},
			}, contentFlags...),
			Action: runPost,
		},
		{
			Name:      "reply",
			Usage:     "reply to a post",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: append([]cli.Flag{
				cli.UintFlag{
					Name:  "post, P",
					Value: 0,
					Usage: "*post `ID`",
				},
			}, contentFlags...),
			Action: runReply,
		},
		{
			Name:      "like",
			Usage:     "toggle a like on a post",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags:     contentFlags,
			Action:    runLike,
		},
		{
			Name:      "delete-post",
			Usage:     "delete a post and its likes",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags:     contentFlags,
			Action:    runDeletePost,
		},
		{
			Name:      "delete-reply",
			Usage:     "delete a reply",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags:     contentFlags,
			Action:    runDeleteReply,
		},
		{
			Name:  "bank",
			Usage: "storage fee bank and well operations",
			Subcommands: []cli.Command{
				{
					Name:   "create",
					Usage:  "create the bank operated by the identity",
					Action: runBankCreate,
				},
				{
					Name:   "well",
					Usage:  "create the subsidy well",
					Action: runBankCreateWell,
				},
				{
					Name:   "reset",
					Usage:  "restore the bank capacity",
					Action: runBankReset,
				},
				{
					Name:      "extract",
					Usage:     "move native funds out of the bank",
					ArgsUsage: "AMOUNT",
					Action:    runBankExtract,
				},
				{
					Name:      "fund-well",
					Usage:     "move native funds into the well",
					ArgsUsage: "AMOUNT",
					Action:    runBankFundWell,
				},
			},
		},
		{
			Name:      "expire",
			Usage:     "fire the expiry callback for posts that are due",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Value: 10,
					Usage: " maximum posts to expire `COUNT`",
				},
			},
			Action: runExpire,
		},
		{
			Name:      "query",
			Usage:     "display a record",
			ArgsUsage: "KIND [KEY]",
			Action:    runQuery,
		},
		{
			Name:      "balance",
			Usage:     "display native and token balances",
			ArgsUsage: "[IDENTITY|ADDRESS]",
			Action:    runBalance,
		},
		{
			Name:      "derive",
			Usage:     "display the address of a record",
			ArgsUsage: "KIND [KEY]",
			Action:    runDerive,
		},
		{
			Name:      "due",
			Usage:     "list posts due to expire",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runDue,
		},
		{
			Name:   "node-info",
			Usage:  "display splingd status",
			Action: runNodeInfo,
		},
		{
			Name:  "version",
			Usage: "display spling-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		file, err := configurationFile(c.GlobalString("config"), app.Name)
		if nil != err {
			return err
		}

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				save:    false,
				verbose: verbose,
				e:       e,
				w:       w,
			}
			return nil
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		config, err := configuration.Load(file)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  config,
			save:    false,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.save {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			err := configuration.Save(m.file, m.config)
			if nil != err {
				return err
			}
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// explicit file or one below XDG_CONFIG_HOME
func configurationFile(file string, name string) (string, error) {
	if "" != file {
		return os.ExpandEnv(file), nil
	}

	p := os.Getenv("XDG_CONFIG_HOME")
	if "" == p {
		return "", fmt.Errorf("XDG_CONFIG_HOME environment is not set")
	}
	dir, err := checkFileExists(p)
	if nil != err {
		return "", err
	}
	if !dir {
		return "", fmt.Errorf("not a directory: %q", p)
	}
	return path.Join(p, name, name+".json"), nil
}
