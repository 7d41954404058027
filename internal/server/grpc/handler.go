package grpc

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/api"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *api.CredentialsRequest) (*api.Account, error) {

	account, err := s.accounts.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "account_id", account.ID)
	return toAccount(account), nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.CredentialsRequest) (*api.TokenResponse, error) {

	token, err := s.tokens.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return toToken(token), nil

}

func (s *GRPCServer) CompleteSecondFactor(ctx context.Context, req *api.CodeRequest) (*api.TokenResponse, error) {

	token, err := s.tokens.CompleteSecondFactor(ctx, tokenFrom(ctx), req.Code)
	if err != nil {
		return nil, err
	}

	return toToken(token), nil

}

func (s *GRPCServer) Profile(ctx context.Context, req *api.Empty) (*api.Account, error) {

	account, err := s.accounts.Profile(ctx, accountID(ctx))
	if err != nil {
		return nil, err
	}

	return toAccount(account), nil

}

func (s *GRPCServer) EnableSecondFactor(ctx context.Context, req *api.Empty) (*api.Enrollment, error) {

	e, err := s.twofa.Enable(ctx, accountID(ctx))
	if err != nil {
		return nil, err
	}

	return &api.Enrollment{Secret: e.Secret, ProvisioningURI: e.URI}, nil

}

func (s *GRPCServer) ConfirmSecondFactor(ctx context.Context, req *api.CodeRequest) (*api.Empty, error) {

	if err := s.twofa.Confirm(ctx, accountID(ctx), req.Code); err != nil {
		return nil, err
	}

	return &api.Empty{}, nil

}

func (s *GRPCServer) DisableSecondFactor(ctx context.Context, req *api.CodeRequest) (*api.Empty, error) {

	if err := s.twofa.Disable(ctx, accountID(ctx), req.Code); err != nil {
		return nil, err
	}

	return &api.Empty{}, nil

}

func (s *GRPCServer) CreateVault(ctx context.Context, req *api.CreateVaultRequest) (*api.Vault, error) {

	v, err := s.vaults.CreateVault(ctx, accountID(ctx), req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	return toVault(*v), nil

}

func (s *GRPCServer) ListVaults(ctx context.Context, req *api.Empty) (*api.ListVaultsResponse, error) {

	list, err := s.vaults.ListVaults(ctx, accountID(ctx))
	if err != nil {
		return nil, err
	}

	return &api.ListVaultsResponse{Vaults: toVaults(list)}, nil

}

func (s *GRPCServer) GetVault(ctx context.Context, req *api.VaultRequest) (*api.Vault, error) {

	v, err := s.vaults.GetVault(ctx, accountID(ctx), req.VaultID)
	if err != nil {
		return nil, err
	}

	return toVault(*v), nil

}

func (s *GRPCServer) CreateSecret(ctx context.Context, req *api.CreateSecretRequest) (*api.Secret, error) {

	secret, err := s.vaults.CreateSecret(ctx, accountID(ctx), req.VaultID, req.Name, req.Description, req.Value)
	if err != nil {
		return nil, err
	}

	return toSecret(*secret), nil

}

func (s *GRPCServer) ListSecrets(ctx context.Context, req *api.VaultRequest) (*api.ListSecretsResponse, error) {

	list, err := s.vaults.ListSecrets(ctx, accountID(ctx), req.VaultID)
	if err != nil {
		return nil, err
	}

	resp := &api.ListSecretsResponse{Secrets: make([]api.Secret, 0, len(list))}
	for _, secret := range list {
		resp.Secrets = append(resp.Secrets, *toSecret(secret))
	}
	return resp, nil

}

func (s *GRPCServer) ReadSecret(ctx context.Context, req *api.ReadSecretRequest) (*api.SecretValue, error) {

	v, err := s.vaults.ReadSecret(ctx, accountID(ctx), req.VaultID, req.SecretID)
	if err != nil {
		return nil, err
	}

	return &api.SecretValue{ID: v.ID, Name: v.Name, Value: v.Value, LastAccessedAt: v.LastAccessedAt}, nil

}

func (s *GRPCServer) AddMember(ctx context.Context, req *api.AddMemberRequest) (*api.Member, error) {

	m, err := s.vaults.AddMember(ctx, accountID(ctx), req.VaultID, req.Email, req.Role)
	if err != nil {
		return nil, err
	}

	return toMember(*m), nil

}

func (s *GRPCServer) ListMembers(ctx context.Context, req *api.VaultRequest) (*api.ListMembersResponse, error) {

	list, err := s.vaults.ListMembers(ctx, accountID(ctx), req.VaultID)
	if err != nil {
		return nil, err
	}

	resp := &api.ListMembersResponse{Members: make([]api.Member, 0, len(list))}
	for _, m := range list {
		resp.Members = append(resp.Members, *toMember(m))
	}
	return resp, nil

}

func (s *GRPCServer) ListVaultLogs(ctx context.Context, req *api.LogsRequest) (*api.LogsResponse, error) {

	logs, err := s.vaults.ListVaultLogs(ctx, accountID(ctx), req.VaultID, req.Limit)
	if err != nil {
		return nil, err
	}

	return &api.LogsResponse{Logs: toAuditEntries(logs)}, nil

}

func (s *GRPCServer) ListAllLogs(ctx context.Context, req *api.LogsRequest) (*api.LogsResponse, error) {

	logs, err := s.vaults.ListAllLogs(ctx, accountID(ctx), req.Limit)
	if err != nil {
		return nil, err
	}

	return &api.LogsResponse{Logs: toAuditEntries(logs)}, nil

}

func (s *GRPCServer) Dashboard(ctx context.Context, req *api.Empty) (*api.DashboardResponse, error) {

	d, err := s.vaults.Dashboard(ctx, accountID(ctx))
	if err != nil {
		return nil, err
	}

	return &api.DashboardResponse{
		Stats: api.DashboardStats{
			Vaults:   d.Stats.Vaults,
			Secrets:  d.Stats.Secrets,
			Accesses: d.Stats.Accesses,
		},
		RecentVaults: toVaults(d.RecentVaults),
		RecentLogs:   toAuditEntries(d.RecentLogs),
	}, nil

}

func (s *GRPCServer) ExportVaultLogs(ctx context.Context, req *api.VaultRequest) (*api.ExportResponse, error) {

	e, err := s.vaults.ExportVaultLogs(ctx, accountID(ctx), req.VaultID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Audit log exported", "vault_id", req.VaultID, "key", e.Key)
	return &api.ExportResponse{Key: e.Key, URL: e.URL, ExpiresAt: e.ExpiresAt, Records: e.Records}, nil

}
