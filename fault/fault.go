// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	AuthorisationError GenericError
	ExistsError        GenericError
	InvalidError       GenericError
	InvariantError     GenericError
	LengthError        GenericError
	MismatchError      GenericError
	NotFoundError      GenericError
	ProcessError       GenericError
	RecordError        GenericError
)

// common errors - keep in alphabetic order
var (
	AddressMismatch              = MismatchError("derived address does not match")
	AlreadyInitialised           = ExistsError("already initialised")
	BankAlreadyExists            = ExistsError("bank already exists")
	BankNotFound                 = NotFoundError("bank not found")
	CanonicalMismatch            = MismatchError("canonical byte does not match")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	CertificateMismatch          = MismatchError("certificate fingerprint does not match")
	ConfigurationNotTable        = InvalidError("configuration did not return a table")
	CounterOverflow              = InvariantError("counter overflow")
	CryptoFailed                 = ProcessError("crypto failed")
	DatabaseIsNotSet             = ProcessError("database is not set")
	DuplicateListEntry           = ExistsError("id already in list")
	GroupProfileAlreadyExists    = ExistsError("group profile already exists")
	GroupProfileNotFound         = NotFoundError("group profile not found")
	IdentityNameAlreadyExists    = ExistsError("identity name already exists")
	IdentityNameNotFound         = NotFoundError("identity name not found")
	InsufficientFunds            = ProcessError("insufficient funds")
	InsufficientTokens           = ProcessError("insufficient tokens")
	InvalidAddress               = InvalidError("invalid address")
	InvalidCount                 = InvalidError("invalid count")
	InvalidCursor                = InvalidError("invalid cursor")
	InvalidDataDirectory         = InvalidError("invalid data directory")
	InvalidFileName              = InvalidError("file name must not contain a directory")
	InvalidIpAddress             = InvalidError("invalid IP address")
	InvalidPassword              = InvalidError("invalid password")
	InvalidPortNumber            = InvalidError("invalid port number")
	InvalidPrivateKeyFile        = InvalidError("invalid private key file")
	InvalidPublicKey             = InvalidError("invalid public key")
	InvalidPublicKeyFile         = InvalidError("invalid public key file")
	InvalidSchedule              = InvalidError("invalid schedule")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidTimestamp             = InvalidError("invalid timestamp")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	LikeCounterOverflow          = InvariantError("like counter overflow")
	LikeCounterUnderflow         = InvariantError("like counter underflow")
	LikesAlreadyExists           = ExistsError("likes already exist")
	LikesNotFound                = NotFoundError("likes not found")
	MissingParameters            = InvalidError("missing parameters")
	NoCanonicalAddress           = ProcessError("no canonical address found")
	NotDue                       = InvalidError("expiry is not due")
	NotInitialised               = NotFoundError("not initialised")
	NotPrivateKey                = InvalidError("identity has no private key")
	PasswordTooShort             = LengthError("password is too short")
	PostAlreadyExists            = ExistsError("post already exists")
	PostNotFound                 = NotFoundError("post not found")
	RateLimiting                 = InvalidError("rate limiting")
	RecordTruncated              = RecordError("record truncated")
	RecordUnknown                = RecordError("record type unknown")
	RecordTypeMismatch           = RecordError("record type mismatch")
	ReplayedRequest              = AuthorisationError("request already accepted")
	ReplyAlreadyExists           = ExistsError("reply already exists")
	ReplyNotFound                = NotFoundError("reply not found")
	SeedTooLong                  = LengthError("seed too long")
	TagIndexMismatch             = InvariantError("tag index does not match counter")
	TagNameTooLong               = LengthError("tag name too long")
	TagsAlreadyExist             = ExistsError("tag index already exists")
	TagsNotFound                 = NotFoundError("tag index not found")
	ThreadAlreadyExists          = ExistsError("expiry thread already exists")
	ThreadNotFound               = NotFoundError("expiry thread not found")
	TooManySeeds                 = LengthError("too many seeds")
	TransactionAlreadyInUse      = ProcessError("transaction already in use")
	Unauthorised                 = AuthorisationError("caller is not the owner")
	UnissuedIdentifier           = NotFoundError("identifier has not been issued")
	UserProfileAlreadyExists     = ExistsError("user profile already exists")
	UserProfileNotFound          = NotFoundError("user profile not found")
	WellAlreadyExists            = ExistsError("well already exists")
	WellNotFound                 = NotFoundError("well not found")
	WrongRecordSize              = LengthError("wrong record size")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorisationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e InvariantError) Error() string     { return string(e) }
func (e LengthError) Error() string        { return string(e) }
func (e MismatchError) Error() string      { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e RecordError) Error() string        { return string(e) }

// determine the class of an error
func IsErrAuthorisation(e error) bool { _, ok := e.(AuthorisationError); return ok }
func IsErrExists(e error) bool        { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool       { _, ok := e.(InvalidError); return ok }
func IsErrInvariant(e error) bool     { _, ok := e.(InvariantError); return ok }
func IsErrLength(e error) bool        { _, ok := e.(LengthError); return ok }
func IsErrMismatch(e error) bool      { _, ok := e.(MismatchError); return ok }
func IsErrNotFound(e error) bool      { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool       { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool        { _, ok := e.(RecordError); return ok }
