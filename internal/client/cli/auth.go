package cli

import (
	"context"

	"github.com/dmitrijs2005/expensekeeper/internal/client/biometric"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password, creates the account and
// logs in with it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	a.printf("Account created. Welcome, %s!\n", displayName(s.User))
	return nil
}

// Login prompts for credentials and logs in. When a biometric sensor is
// available and the shortcut is not enabled yet, the user is offered to
// enable it with the same credentials. Declining or failing to enable does
// not undo the login.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", displayName(s.User))

	if s.BiometricsEnabled || !a.authService.BiometricCapability(ctx).Available {
		return nil
	}

	name := a.authService.BiometryName()
	ok, err := GetConfirm(a.reader, "Enable "+name+" login?", a.out)
	if err != nil || !ok {
		return nil
	}
	if err := a.authService.EnableBiometrics(ctx, email, string(password)); err != nil {
		a.printf("Could not enable %s: %s\n", name, services.UserMessage(err))
		return nil
	}
	a.printf("%s login enabled\n", name)
	return nil
}

// BioLogin logs in with the stored credentials after a successful sensor
// prompt. A cancelled prompt is not an error.
func (a *App) BioLogin(ctx context.Context) error {
	if !a.authService.BiometricCapability(ctx).Available {
		return biometric.ErrSensorUnavailable
	}

	ok, err := a.authService.AuthenticateWithBiometrics(ctx)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Authentication cancelled\n")
		return nil
	}

	a.printf("Welcome, %s!\n", displayName(a.authService.Session().User))
	return nil
}

// Logout asks for confirmation, then ends the session and forgets the
// stored credentials.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	ok, err := GetConfirm(a.reader, "Are you sure you want to logout?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.authService.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout left stored data behind", "error", err)
	}
	a.printf("Logged out\n")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	s := a.authService.Session()
	if !s.IsAuthenticated {
		return services.ErrNotAuthenticated
	}
	a.printf("Name:  %s\nEmail: %s\nID:    %d\n", s.User.Name, s.User.Email, s.User.ID)
	return nil
}

// Biometrics prints the sensor capability and whether the shortcut is on.
func (a *App) Biometrics(ctx context.Context) error {
	c := a.authService.BiometricCapability(ctx)
	name := a.authService.BiometryName()

	if !c.Available {
		a.printf("%s: not available\n", name)
		return nil
	}

	state := "disabled"
	if a.authService.Session().BiometricsEnabled {
		state = "enabled"
	}
	a.printf("%s: available, %s\n", name, state)
	return nil
}

// BioEnable stores the current user's credentials behind the sensor. The
// password is asked again and checked by the server.
func (a *App) BioEnable(ctx context.Context) error {
	s := a.authService.Session()
	if !s.IsAuthenticated {
		return services.ErrNotAuthenticated
	}
	if !a.authService.BiometricCapability(ctx).Available {
		return biometric.ErrSensorUnavailable
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.EnableBiometrics(ctx, s.User.Email, string(password)); err != nil {
		return err
	}
	a.printf("%s login enabled\n", a.authService.BiometryName())
	return nil
}

func (a *App) BioDisable(ctx context.Context) error {
	if err := a.authService.DisableBiometrics(ctx); err != nil {
		return err
	}
	a.printf("%s login disabled\n", a.authService.BiometryName())
	return nil
}
