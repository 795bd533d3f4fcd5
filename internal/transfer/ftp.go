// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"context"
	"io"
	"time"

	"github.com/jlaffaye/ftp"

	"ibridge/cli/internal/errors"
)

// defaultPort is the FTP control port on the host.
const defaultPort = "21"

// FTPDialer opens FTP sessions against the host's file-system view.
// Uploads go through /QSYS.LIB paths in binary mode so member bytes arrive
// exactly as encoded.
type FTPDialer struct {
	Host     string
	Port     string
	User     string
	Password string
	// Timeout bounds the control-connection dial. Zero means the
	// library default.
	Timeout time.Duration
}

// Dial connects and logs in. Any failure is a transfer_error carrying the
// transport detail.
func (d *FTPDialer) Dial(ctx context.Context) (Session, error) {
	port := d.Port
	if port == "" {
		port = defaultPort
	}
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if d.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(d.Timeout))
	}
	conn, err := ftp.Dial(d.Host+":"+port, opts...)
	if err != nil {
		return nil, errors.Wrapf(errors.TransferFailed, err, "dial bulk channel %s", d.Host)
	}
	if err := conn.Login(d.User, d.Password); err != nil {
		_ = conn.Quit()
		return nil, errors.Wrapf(errors.TransferFailed, err, "login to bulk channel as %s", d.User)
	}
	// Binary mode: the channel must not transcode member bytes.
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		_ = conn.Quit()
		return nil, errors.Wrap(errors.TransferFailed, "set binary transfer mode", err)
	}
	return &ftpSession{conn: conn}, nil
}

type ftpSession struct {
	conn *ftp.ServerConn
}

func (s *ftpSession) Store(path string, r io.Reader) error {
	if err := s.conn.Stor(path, r); err != nil {
		return errors.Wrapf(errors.TransferFailed, err, "store %s", path)
	}
	return nil
}

func (s *ftpSession) Close() error {
	return s.conn.Quit()
}
