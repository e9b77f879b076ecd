// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/sha3"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/util"
)

const validity = 10 * 365 * 24 * time.Hour

// Get - load a certificate and key pair from files and return a
// server TLS configuration with the certificate fingerprint
func Get(log *logger.L, name string, certificateFileName string, keyFileName string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	certificate, err := ioutil.ReadFile(certificateFileName)
	if nil != err {
		log.Errorf("%s: certificate: %q  error: %s", name, certificateFileName, err)
		return nil, fin, err
	}
	key, err := ioutil.ReadFile(keyFileName)
	if nil != err {
		log.Errorf("%s: private key: %q  error: %s", name, keyFileName, err)
		return nil, fin, err
	}

	keyPair, err := tls.X509KeyPair(certificate, key)
	if nil != err {
		log.Errorf("%s failed to load keypair: %s", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin = Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Fingerprint - SHA3-256 of the DER encoded certificate
//
// openssl x509 -outform DER -in splingd-rpc.crt | sha3sum -a 256
func Fingerprint(der []byte) [32]byte {
	return sha3.Sum256(der)
}

// MakeSelfSigned - create a self signed certificate and key pair
func MakeSelfSigned(name string, certificateFileName string, keyFileName string, override bool, extraHosts []string) error {
	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileAlreadyExists
	}

	if util.EnsureFileExists(keyFileName) {
		return fault.KeyFileAlreadyExists
	}

	org := "splingd self signed cert for: " + name
	validUntil := time.Now().Add(validity)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if nil != err {
		return err
	}

	err = ioutil.WriteFile(certificateFileName, cert, 0666)
	if nil != err {
		return err
	}

	err = ioutil.WriteFile(keyFileName, key, 0600)
	if nil != err {
		os.Remove(certificateFileName)
		return err
	}

	return nil
}
