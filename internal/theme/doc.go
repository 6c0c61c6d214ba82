// Package theme handles CSS theme loading and hot-reload for toastyd.
// It supports loading themes from ~/.config/toasty/themes/ and provides
// embedded themes that style the toast container and its severity classes.
package theme
